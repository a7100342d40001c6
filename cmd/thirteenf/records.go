package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/thirteenf/internal/cli"
	"github.com/Veraticus/thirteenf/internal/common"
	"github.com/Veraticus/thirteenf/internal/model"
)

func recordsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect and edit stored records",
		Long:  `List, show, update and delete records in the record store. Every change is written to the audit log.`,
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "record store database (default: storage.database)")

	cmd.AddCommand(recordsListCmd(&dbPath))
	cmd.AddCommand(recordsGetCmd(&dbPath))
	cmd.AddCommand(recordsUpdateCmd(&dbPath))
	cmd.AddCommand(recordsDeleteCmd(&dbPath))
	cmd.AddCommand(recordsHistoryCmd(&dbPath))

	return cmd
}

func recordsListCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, _, err := openStore(ctx, *dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.ListRecords(ctx)
			if err != nil {
				return fmt.Errorf("failed to list records: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, _ = fmt.Fprintln(out, cli.InfoStyle.Render("No records found. Use 'thirteenf convert --store' to add some."))
				return nil
			}

			header := append([]string{"ID"}, model.SheetHeader...)
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				row := []string{fmt.Sprint(rec.ID)}
				for _, name := range model.SheetHeader {
					row = append(row, stringValue(rec.Data[name]))
				}
				rows = append(rows, row)
			}

			_, _ = fmt.Fprintln(out, cli.RenderTable(header, rows))
			return nil
		},
	}
}

func recordsGetCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, _, err := openStore(ctx, *dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rec, err := store.GetRecord(ctx, id)
			if err != nil {
				return err
			}

			return writeJSON(cmd, rec)
		},
	}
}

func recordsUpdateCmd(dbPath *string) *cobra.Command {
	var (
		sets []string
		user string
	)

	cmd := &cobra.Command{
		Use:   "update <id> --set Field=value...",
		Short: "Change fields of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if len(sets) == 0 {
				return common.NewUserError("nothing to update; pass --set Field=value", nil)
			}

			ctx := cmd.Context()
			store, cfg, err := openStore(ctx, *dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rec, err := store.GetRecord(ctx, id)
			if err != nil {
				return err
			}

			data := make(map[string]any, len(rec.Data)+len(sets))
			for k, v := range rec.Data {
				data[k] = v
			}
			for _, s := range sets {
				name, value, ok := strings.Cut(s, "=")
				if !ok || strings.TrimSpace(name) == "" {
					return common.NewUserError(fmt.Sprintf("invalid --set %q; want Field=value", s), nil)
				}
				data[strings.TrimSpace(name)] = value
			}

			if user == "" {
				user = cfg.Storage.User
			}
			updated, err := store.UpdateRecord(ctx, id, data, user)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated record %d", updated.ID)))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "field assignment Field=value (repeatable)")
	cmd.Flags().StringVar(&user, "user", "", "user recorded in the audit log")

	return cmd
}

func recordsDeleteCmd(dbPath *string) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, cfg, err := openStore(ctx, *dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if user == "" {
				user = cfg.Storage.User
			}
			if err := store.DeleteRecord(ctx, id, user); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted record %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user recorded in the audit log")

	return cmd
}

func recordsHistoryCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "history [id]",
		Short: "Show the audit log",
		Long:  `Show the audit log of one record, or of every record when no id is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			if len(args) == 1 {
				var err error
				if id, err = parseID(args[0]); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			store, _, err := openStore(ctx, *dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.ListAudit(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, cli.InfoStyle.Render("No audit entries."))
				return nil
			}

			header := []string{"Time", "Record", "Operation", "User", "Run", "Changes"}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.Timestamp.Format("2006-01-02 15:04:05"),
					fmt.Sprint(e.RecordID),
					string(e.Operation),
					e.User,
					e.RunID,
					describeChanges(e),
				})
			}

			_, _ = fmt.Fprintln(out, cli.RenderTable(header, rows))
			return nil
		},
	}
}

// describeChanges summarizes which fields an audit entry touched.
func describeChanges(e model.AuditEntry) string {
	switch e.Operation {
	case model.AuditCreate:
		return stringValue(e.After["Identity"])
	case model.AuditDelete:
		return stringValue(e.Before["Identity"])
	}

	var changed []string
	for k, after := range e.After {
		if stringValue(e.Before[k]) != stringValue(after) {
			changed = append(changed, fmt.Sprintf("%s: %q → %q", k, stringValue(e.Before[k]), stringValue(after)))
		}
	}
	sort.Strings(changed)
	return strings.Join(changed, ", ")
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
