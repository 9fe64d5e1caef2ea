package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"animehub/cmd/cli/authentication"
	"animehub/internal/session"
)

// auth.go handles the session commands. The session cookie returned by the
// API is kept in the OS keyring between runs.

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Sign up, log in and out of the animehub session API. Supports signup, login, logout, whoami.`,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var data session.SignupData
		data.Username, _ = cmd.Flags().GetString("username")
		data.Password, _ = cmd.Flags().GetString("password")
		data.Email, _ = cmd.Flags().GetString("email")
		data.PasswordConfirmation = data.Password

		client, err := sessionClient(false)
		if err != nil {
			return err
		}
		res := client.Signup(cmd.Context(), data)
		if !res.OK() {
			return fmt.Errorf("signup failed: %s", res.Error)
		}
		name := usernameOf(res, data.Username)
		if err := saveSession(client, name); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okText("✓ Signed up and logged in as "+name))
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var data session.LoginData
		data.Username, _ = cmd.Flags().GetString("username")
		data.Password, _ = cmd.Flags().GetString("password")

		client, err := sessionClient(false)
		if err != nil {
			return err
		}
		res := client.Login(cmd.Context(), data)
		if !res.OK() {
			return fmt.Errorf("login failed: %s", res.Error)
		}
		name := usernameOf(res, data.Username)
		if err := saveSession(client, name); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okText("✓ Logged in as "+name))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := sessionClient(true)
		if errors.Is(err, authentication.ErrNoSession) {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
			return nil
		}
		if err != nil {
			return err
		}
		res := client.Logout(cmd.Context())
		if err := authentication.DeleteSession(cfg.SessionAPIURL); err != nil {
			return fmt.Errorf("failed to clear stored session: %w", err)
		}
		if !res.OK() {
			// The local session is gone either way.
			fmt.Fprintln(cmd.ErrOrStderr(), warnText("server logout failed: "+res.Error))
		}
		fmt.Fprintln(cmd.OutOrStdout(), okText("✓ Logged out."))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := sessionClient(true)
		if errors.Is(err, authentication.ErrNoSession) {
			return errors.New("not logged in, please run 'animehub auth login'")
		}
		if err != nil {
			return err
		}
		res := client.CheckSession(cmd.Context())
		if !res.OK() {
			return fmt.Errorf("session check failed: %s", res.Error)
		}
		if res.User == nil {
			return errors.New("session check returned no user")
		}

		w, asJSON := out(cmd)
		if asJSON {
			return printJSON(w, res.User)
		}
		tw := newTable(w)
		addRow(tw, "Username", res.User.Username)
		addRow(tw, "ID", string(res.User.ID))
		addRow(tw, "Email", res.User.Email)
		if res.User.CreatedAt != nil {
			addRow(tw, "Member since", res.User.CreatedAt.Format("2006-01-02"))
		}
		tw.Render()
		return nil
	},
}

// init function to add auth commands to root command
func init() {
	authCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)

	signupCmd.Flags().StringP("username", "u", "", "Username for the new account")
	signupCmd.Flags().StringP("password", "p", "", "Password for the new account")
	signupCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	signupCmd.MarkFlagRequired("username")
	signupCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringP("username", "u", "", "Username for the account")
	loginCmd.Flags().StringP("password", "p", "", "Password for the account")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")
}

// sessionClient builds a session client, optionally restoring the stored cookie.
func sessionClient(restore bool) (*session.Client, error) {
	client, err := session.NewClient(cfg.SessionAPIURL, cfg.PrimaryTimeout)
	if err != nil {
		return nil, err
	}
	if !restore {
		return client, nil
	}
	stored, err := authentication.GetSession(cfg.SessionAPIURL)
	if err != nil {
		return nil, err
	}
	client.SetCookies(stored.HTTPCookies())
	return client, nil
}

func saveSession(client *session.Client, username string) error {
	err := authentication.StoreSession(cfg.SessionAPIURL, &authentication.StoredSession{
		Username: username,
		Cookies:  authentication.FromHTTP(client.Cookies()),
	})
	if err != nil {
		return fmt.Errorf("logged in, but the session could not be saved to the keyring: %w", err)
	}
	log.Debug("session stored", "api", cfg.SessionAPIURL, "user", username)
	return nil
}

// usernameOf prefers the name the server echoed back.
func usernameOf(res session.Result, fallback string) string {
	if res.User != nil && res.User.Username != "" {
		return res.User.Username
	}
	return fallback
}
