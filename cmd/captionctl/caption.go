package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/timmy/captionrelay/internal/service"
)

func captionCmd(opts *rootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "caption <file>",
		Short: "Store a local image and caption it",
		Long: `Copy a local image into the uploads directory under its sanitized name,
caption it, and print the caption with the image URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			if name == "" {
				name = f.Name()
				if info, err := f.Stat(); err == nil {
					name = info.Name()
				}
			}

			result, err := a.Media.Upload(ctx, f, name)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "File name to store under (defaults to the local base name)")

	return cmd
}

func recaptionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recaption <image_url>",
		Short: "Caption a previously stored image again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			caption, err := a.Media.Recaption(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), service.UploadResult{Caption: caption, ImageURL: args[0]})
		},
	}
}
