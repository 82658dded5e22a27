package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

func seedCategoriesCmd(d deps) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "seed-categories",
		Short: "Insert the default global categories that are missing",
		Long: `seed-categories inserts the default global expense and income categories.
Categories that already exist with the same name and type are left untouched, so
the command can run on every deploy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := entity.DefaultGlobalCategories()
			out := cmd.OutOrStdout()

			if list {
				for _, c := range defaults {
					fmt.Fprintf(out, "%-8s %s\n", c.Type, c.Name)
				}
				return nil
			}

			l, err := d.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer l.close()

			inserted, err := l.categories.EnsureGlobal(cmd.Context(), defaults)
			if err != nil {
				return fmt.Errorf("seed categories: %w", err)
			}

			fmt.Fprintf(out, "inserted %d of %d default categories\n", inserted, len(defaults))
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print the defaults without touching the database")

	return cmd
}
