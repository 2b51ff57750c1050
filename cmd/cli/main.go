package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/auth"
	"github.com/iho/debtledger/internal/infrastructure/logger"
	"github.com/iho/debtledger/internal/infrastructure/postgres"
)

type cliOptions struct {
	baseURL string
	timeout time.Duration
	as      string
	token   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "debtledger-cli",
		Short:         "DebtLedger CLI tool",
		Long:          `A command line interface for recording and settling debts through the DebtLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("DEBTLEDGER_URL", "http://localhost:8080"), "Base URL of the DebtLedger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.as, "as", os.Getenv("DEBTLEDGER_PARTICIPANT"), "Participant ID to act as (auth disabled)")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("DEBTLEDGER_TOKEN"), "Bearer token (auth enabled)")

	rootCmd.AddCommand(
		participantCmd(opts),
		ledgerCmd(opts),
		entryCmd(opts),
		balanceCmd(opts),
		tokenCmd(),
		migrateCmd(),
	)

	return rootCmd
}

func (o *cliOptions) client() *apiClient {
	return newAPIClient(o.baseURL, o.timeout, o.as, o.token)
}

func participantCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "participant", Short: "Participant operations"}

	cmd.AddCommand(&cobra.Command{
		Use:   "register <display-name>",
		Short: "Register a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.RegisterParticipantResponse
			err := opts.client().do(cmd.Context(), "POST", "/api/v1/participants",
				dto.RegisterParticipantRequest{DisplayName: args[0]}, &resp)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, opts, "/api/v1/participants/"+url.PathEscape(args[0]), &dto.ParticipantResponse{})
		},
	})

	return cmd
}

func ledgerCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "ledger", Short: "Ledger operations"}

	var members []string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a ledger shared with --member participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.LedgerResponse
			err := opts.client().do(cmd.Context(), "POST", "/api/v1/ledgers",
				dto.CreateLedgerRequest{Name: args[0], ParticipantIDs: members}, &resp)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	create.Flags().StringSliceVar(&members, "member", nil, "Member participant ID (repeatable)")

	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your ledgers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, opts, "/api/v1/ledgers", &dto.ListLedgersResponse{})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, opts, "/api/v1/ledgers/"+url.PathEscape(args[0]), &dto.LedgerResponse{})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "entries <id>",
		Short: "List a ledger's entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, opts, "/api/v1/ledgers/"+url.PathEscape(args[0])+"/entries", &dto.ListEntriesResponse{})
		},
	})

	return cmd
}

func entryCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "entry", Short: "Entry operations"}

	var (
		ledgerID    string
		description string
	)
	create := &cobra.Command{
		Use:   "create <debt|payment> <counterparty-id> <amount>",
		Short: "Record a debt owed to you or a payment you made",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := domain.ParseEntryType(args[0]); err != nil {
				return err
			}
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			var resp dto.EntryResponse
			err = opts.client().do(cmd.Context(), "POST", "/api/v1/entries", dto.CreateEntryRequest{
				LedgerID:       ledgerID,
				Type:           args[0],
				CounterpartyID: args[1],
				Amount:         amount,
				Description:    description,
			}, &resp)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	create.Flags().StringVar(&ledgerID, "ledger", "", "Ledger ID")
	create.Flags().StringVar(&description, "description", "", "What the entry is for")
	_ = create.MarkFlagRequired("ledger")
	_ = create.MarkFlagRequired("description")

	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, opts, "/api/v1/entries/"+url.PathEscape(args[0]), &dto.EntryResponse{})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "history <id>",
		Short: "Show an entry's audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, opts, "/api/v1/entries/"+url.PathEscape(args[0])+"/history", &dto.EntryHistoryResponse{})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pending",
		Short: "List entries awaiting your approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, opts, "/api/v1/entries/pending", &dto.ListEntriesResponse{})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "close-requests",
		Short: "List close requests awaiting your answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, opts, "/api/v1/entries/close-requests", &dto.ListEntriesResponse{})
		},
	})

	for _, action := range domain.Actions {
		cmd.AddCommand(actionCmd(opts, action))
	}

	return cmd
}

// actionCmd builds "entry approve <id>" style commands, one per action.
func actionCmd(opts *cliOptions, action domain.Action) *cobra.Command {
	return &cobra.Command{
		Use:   commandName(action) + " <id>",
		Short: "Apply " + string(action) + " to an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.EntryResponse
			err := opts.client().do(cmd.Context(), "PATCH", "/api/v1/entries/"+url.PathEscape(args[0]),
				dto.TransitionEntryRequest{Action: string(action)}, &resp)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}

func balanceCmd(opts *cliOptions) *cobra.Command {
	var participantID string
	cmd := &cobra.Command{
		Use:   "balance <ledger-id>",
		Short: "Show your balance in a ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/ledgers/" + url.PathEscape(args[0]) + "/balance"
			if participantID != "" {
				path += "?participant_id=" + url.QueryEscape(participantID)
			}
			return getAndPrint(cmd, opts, path, &dto.BalanceResponse{})
		},
	}
	cmd.Flags().StringVar(&participantID, "participant", "", "Show another member's balance")

	cmd.AddCommand(&cobra.Command{
		Use:   "all <ledger-id>",
		Short: "Show every member's balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, opts, "/api/v1/ledgers/"+url.PathEscape(args[0])+"/balances", &dto.LedgerBalancesResponse{})
		},
	})

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <participant-id>",
		Short: "Sign a bearer token locally with the server's JWT secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, source string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back PostgreSQL schema migrations",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&source, "source", envOr("MIGRATIONS_PATH", "file://migrations"), "Migrations source URL")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.RunMigrations(databaseURL, source, migrationLogger(cmd))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.RunMigrationsDown(databaseURL, source, migrationLogger(cmd))
		},
	})

	return cmd
}

func migrationLogger(cmd *cobra.Command) zerolog.Logger {
	return logger.NewWithWriter(logger.Config{Level: "info", Format: "console"}, cmd.ErrOrStderr())
}

func getAndPrint(cmd *cobra.Command, opts *cliOptions, path string, out any) error {
	if err := opts.client().do(cmd.Context(), "GET", path, nil, out); err != nil {
		return err
	}
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// commandName turns request_close into request-close.
func commandName(action domain.Action) string {
	name := []byte(action)
	for i, c := range name {
		if c == '_' {
			name[i] = '-'
		}
	}
	return string(name)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
