package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func uploadsCmd(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		offset int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "List stored file records",
		Long:  `List stored file records from the metadata database. Requires database.enabled.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			files, total, err := a.Media.ListUploads(ctx, limit, offset)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"results": files,
					"total":   total,
					"limit":   limit,
					"offset":  offset,
				})
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tTYPE\tDIMENSIONS\tUPDATED")
			for _, f := range files {
				dims := "-"
				if f.Width > 0 && f.Height > 0 {
					dims = fmt.Sprintf("%dx%d", f.Width, f.Height)
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					f.Name, f.Size, f.ContentType, dims, f.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d\n", len(files), total)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of records to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	return cmd
}
