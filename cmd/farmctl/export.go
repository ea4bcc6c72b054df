package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"farmq-backend/internal/analytics"
	"farmq-backend/internal/catalog"
	"farmq-backend/internal/models"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newExportCmd() *cobra.Command {
	var (
		email string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's analytics workbook to an XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = analytics.ExportFileName(time.Now().Format("2006-01-02"))
			}
			db, err := connect()
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			n, err := exportWorkbook(db, email, out, catalog.DefaultPriceTable(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d yield records to %s\n", n, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default farmq_export_<date>.xlsx)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func exportWorkbook(db *gorm.DB, email, out string, prices catalog.PriceTable, now time.Time) (int, error) {
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("no user with email %q", email)
	}
	if err != nil {
		return 0, fmt.Errorf("load user: %w", err)
	}

	records, err := analytics.LoadRecords(db, user.ID)
	if err != nil {
		return 0, fmt.Errorf("load records: %w", err)
	}

	wb, err := analytics.Workbook(records, analytics.Aggregate(records, prices, now))
	if err != nil {
		return 0, fmt.Errorf("build workbook: %w", err)
	}
	defer wb.Close()

	if err := wb.SaveAs(out); err != nil {
		return 0, fmt.Errorf("save %s: %w", out, err)
	}
	return len(records), nil
}
