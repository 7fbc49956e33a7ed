package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"daily_report_app_go/db"
	"daily_report_app_go/models"
	"daily_report_app_go/services"
)

// --- create-user ---

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a SALES or MANAGER account",
	Long: `Create a SALES or MANAGER account.

Examples:
  admin create-user --name "山田 太郎" --email yamada@example.com --role SALES
  admin create-user --name "鈴木 部長" --email suzuki@example.com --role MANAGER --password secret123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")

		if password == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading password: %w", err)
			}
			password = strings.TrimSpace(line)
		}
		if err := services.ValidatePassword(password); err != nil {
			appErr, _ := services.AsAppError(err)
			return fmt.Errorf("%s", appErr.Details[0].Message)
		}

		closeDB, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB()

		user, err := services.CreateUser(db.DB, services.CreateUserInput{
			Name:     name,
			Email:    email,
			Password: password,
			Role:     models.Role(strings.ToUpper(role)),
		})
		if err != nil {
			if appErr, ok := services.AsAppError(err); ok {
				return fmt.Errorf("%s", appErr.Message)
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "✓ User created successfully!")
		fmt.Fprintf(out, "  ID: %d\n", user.ID)
		fmt.Fprintf(out, "  Name: %s\n", user.Name)
		fmt.Fprintf(out, "  Email: %s\n", user.Email)
		fmt.Fprintf(out, "  Role: %s\n", user.Role)
		return nil
	},
}

func init() {
	createUserCmd.Flags().String("name", "", "display name")
	createUserCmd.Flags().String("email", "", "login email")
	createUserCmd.Flags().String("password", "", "password (prompted when omitted)")
	createUserCmd.Flags().String("role", string(models.RoleSales), "SALES or MANAGER")
	_ = createUserCmd.MarkFlagRequired("name")
	_ = createUserCmd.MarkFlagRequired("email")
}

// --- seed ---

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty database with demo users, customers and reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		closeDB, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := services.SeedDemoData(db.DB); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Demo accounts use the password %q\n", services.DemoPassword)
		return nil
	},
}
