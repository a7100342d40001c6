package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/thirteenf/internal/cli"
	"github.com/Veraticus/thirteenf/internal/common"
	"github.com/Veraticus/thirteenf/internal/model"
)

func fieldsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Manage the field catalog",
		Long:  `List and add the field definitions of the record store.`,
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "record store database (default: storage.database)")

	cmd.AddCommand(fieldsListCmd(&dbPath))
	cmd.AddCommand(fieldsAddCmd(&dbPath))

	return cmd
}

func fieldsListCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, _, err := openStore(ctx, *dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fields, err := store.ListFields(ctx)
			if err != nil {
				return fmt.Errorf("failed to list fields: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(fields) == 0 {
				_, _ = fmt.Fprintln(out, cli.InfoStyle.Render("No fields found. Use 'thirteenf fields add' to create one."))
				return nil
			}

			rows := make([][]string, 0, len(fields))
			for _, f := range fields {
				desc := f.Description
				if desc == "" {
					desc = cli.SubtleStyle.Render("(no description)")
				}
				rows = append(rows, []string{fmt.Sprint(f.ID), f.Name, f.Label, f.DataType, desc})
			}

			_, _ = fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Name", "Label", "Type", "Description"}, rows))
			return nil
		},
	}
}

func fieldsAddCmd(dbPath *string) *cobra.Command {
	var (
		label       string
		dataType    string
		description string
		user        string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a catalog field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, cfg, err := openStore(ctx, *dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			field := &model.Field{
				Name:        args[0],
				Label:       label,
				DataType:    dataType,
				Description: description,
				CreatedBy:   user,
			}
			if field.Label == "" {
				field.Label = field.Name
			}
			if field.CreatedBy == "" {
				field.CreatedBy = cfg.Storage.User
			}

			if err := store.CreateField(ctx, field); err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					return common.NewUserError(fmt.Sprintf("field %q already exists", field.Name), err)
				}
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added field %q (id %d)", field.Name, field.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "display label (default: the name)")
	cmd.Flags().StringVar(&dataType, "type", "string", "data type (string, number, boolean, date)")
	cmd.Flags().StringVar(&description, "description", "", "field description")
	cmd.Flags().StringVar(&user, "user", "", "user recorded as creator")

	return cmd
}
