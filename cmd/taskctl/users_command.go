package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

func newUsersCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUsersAddCommand(ctx))
	cmd.AddCommand(newUsersListCommand(ctx))
	return cmd
}

func newUsersAddCommand(ctx *commandContext) *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withDB(func(gormDB *gorm.DB) error {
				svc := service.NewAuthService(
					repository.NewUserRepository(gormDB),
					auth.NewSessionService(cfg.SessionSecret),
					auth.NewTokenStore(nil),
					ctx.logger(cmd.ErrOrStderr()),
				)
				user, err := svc.Register(cmd.Context(), username, password, model.Role(role))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q (id %d)\n", user.Role, user.Username, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login name")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	cmd.Flags().StringVar(&role, "role", string(model.RoleUser), "Role (admin or user)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUsersListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDB(func(gormDB *gorm.DB) error {
				users, err := repository.NewUserRepository(gormDB).List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(users) == 0 {
					fmt.Fprintln(out, "No users")
					return nil
				}
				rows := make([][]string, 0, len(users))
				for _, u := range users {
					rows = append(rows, []string{
						strconv.FormatUint(uint64(u.ID), 10),
						u.Username,
						string(u.Role),
						u.CreatedAt.UTC().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					out,
					[]string{"ID", "Username", "Role", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}
