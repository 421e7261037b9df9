package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/techsbuilds/pgsphere-customer/client"
	"github.com/techsbuilds/pgsphere-customer/client/localstate"
	"github.com/techsbuilds/pgsphere-customer/client/meal"
	"github.com/techsbuilds/pgsphere-customer/internal/config"
	"github.com/techsbuilds/pgsphere-customer/internal/logger"
)

var (
	apiURL  string
	debug   bool
	asJSON  bool
	timeout = 15 * time.Second
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, client.UserMessage(err))
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	apiURL, debug, asJSON = "", false, false

	rootCmd := &cobra.Command{
		Use:           "pgportal",
		Short:         "pgportal is the tenant command line for the PG portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = logger.NewConsole(cmd.ErrOrStderr())
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Portal backend URL (default $PGPORTAL_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMenuCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newSelectCmd())
	rootCmd.AddCommand(newCancelCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newUpdatesCmd())
	rootCmd.AddCommand(newComplaintsCmd())
	rootCmd.AddCommand(newRentCmd())
	rootCmd.AddCommand(newProfileCmd())

	return rootCmd
}

// --------------------------------------------------------------------
// Wiring
// --------------------------------------------------------------------

func loadConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
		if err := cfg.ResolveDefaults(); err != nil {
			return nil, err
		}
	}
	if debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func newClient(cfg *config.Config, token string) (*client.Client, error) {
	opts := []client.Option{
		client.WithHTTPTimeout(cfg.HTTPTimeout),
		client.WithDebugLogging(cfg.Debug),
		client.WithFetchRetries(cfg.FetchRetries),
		client.WithPolicy(meal.Policy{FailOpen: cfg.MealFailOpen, GateReselect: cfg.MealGateReselect}),
	}
	if token != "" {
		opts = append(opts, client.WithToken(token))
	}
	return client.New(cfg.APIURL, opts...)
}

// loggedInClient restores the saved login. The saved API URL wins unless
// --api-url was given.
func loggedInClient(ctx context.Context) (*client.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := localstate.Open(ctx, cfg.StateDir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	l, err := st.Load(ctx)
	if errors.Is(err, localstate.ErrNoSession) {
		return nil, fmt.Errorf("%w: run `pgportal login` first", client.ErrNotAuthenticated)
	}
	if err != nil {
		return nil, err
	}
	if apiURL == "" && l.APIURL != "" {
		cfg.APIURL = l.APIURL
	}
	log.Debug().Str("api_url", cfg.APIURL).Str("user_id", l.UserID).Msg("restored login")
	return newClient(cfg, l.Token)
}

// withSession runs fn against a session with the meal config loaded.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *client.Session) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	c, err := loggedInClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	s, err := c.NewSession()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if _, err := s.LoadMealConfig(ctx); err != nil {
		return err
	}
	return fn(ctx, s)
}

func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	c, err := loggedInClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()
	return fn(ctx, c)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// dateFlag resolves --date, defaulting to today.
func dateFlag(v string) (string, error) {
	if v == "" || v == "today" {
		return meal.CanonicalDate(time.Now()), nil
	}
	if _, err := meal.ParseDate(v, time.Local); err == nil {
		return v, nil
	}
	// Accept the portal's DD-MM-YYYY form as well.
	return meal.FromWireDate(v)
}

// --------------------------------------------------------------------
// Auth
// --------------------------------------------------------------------

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("PGPORTAL_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("--email and --password (or PGPORTAL_PASSWORD) are required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			c, err := newClient(cfg, "")
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			start := time.Now()
			res, err := c.Login(ctx, email, password)
			if err != nil {
				log.Error().Err(err).Str("email", email).Dur("elapsed", time.Since(start)).Msg("login failed")
				return err
			}

			st, err := localstate.Open(ctx, cfg.StateDir)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			if err := st.Save(ctx, localstate.Login{
				Token:    res.Token,
				UserID:   res.UserID,
				UserType: res.UserType,
				PGCode:   res.PGCode,
				Email:    email,
				APIURL:   cfg.APIURL,
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", email, res.PGCode)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Tenant email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or PGPORTAL_PASSWORD)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := localstate.Open(cmd.Context(), cfg.StateDir)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			if err := st.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// --------------------------------------------------------------------
// Meals
// --------------------------------------------------------------------

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the meal cancellation cutoffs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				cfg, _ := s.MealConfig()
				out := cmd.OutOrStdout()
				if asJSON {
					return printJSON(out, cfg)
				}
				if cfg == nil {
					fmt.Fprintln(out, "No meal cutoffs configured")
					return nil
				}
				today := time.Now()
				for _, t := range meal.Types {
					status := "open"
					if !s.IsMealEditable(t, meal.CanonicalDate(today)) {
						status = "closed"
					}
					fmt.Fprintf(out, "%-9s cutoff %-8s today: %s\n", t.Title(), cfg.Cutoff(t), status)
				}
				return nil
			})
		},
	}
}

func newMenuCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the menu and your selections for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateFlag(date)
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				day, err := s.FetchAndCacheDate(ctx, d)
				if err != nil {
					return err
				}
				return printDay(cmd.OutOrStdout(), day)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day as yyyy-MM-dd or DD-MM-YYYY (default today)")
	return cmd
}

func newWeekCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the Sunday-to-Saturday week containing a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateFlag(date)
			if err != nil {
				return err
			}
			anchor, err := meal.ParseDate(d, time.Local)
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				days, err := s.FetchWeek(ctx, anchor)
				if err != nil {
					log.Warn().Err(err).Msg("some days could not be fetched")
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), days)
				}
				for _, day := range days {
					if err := printDay(cmd.OutOrStdout(), day); err != nil {
						return err
					}
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Any day of the week (default today)")
	return cmd
}

func newSelectCmd() *cobra.Command {
	var date, mealID string

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select a meal (opt back in)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mealID == "" {
				return errors.New("--meal-id is required; see `pgportal menu`")
			}
			d, err := dateFlag(date)
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				if _, err := s.FetchAndCacheDate(ctx, d); err != nil {
					return err
				}
				if err := s.SelectMeal(ctx, d, mealID); err != nil {
					return err
				}
				day, _ := s.GetDaySchedule(d)
				return printDay(cmd.OutOrStdout(), day)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day (default today)")
	cmd.Flags().StringVar(&mealID, "meal-id", "", "Meal id as shown by `menu` (required)")
	return cmd
}

func newCancelCmd() *cobra.Command {
	var date, typ string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a meal before its cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := meal.ParseType(typ)
			if err != nil {
				return err
			}
			d, err := dateFlag(date)
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				if _, err := s.FetchAndCacheDate(ctx, d); err != nil {
					return err
				}
				if err := s.CancelMeal(ctx, d, t); err != nil {
					return err
				}
				day, _ := s.GetDaySchedule(d)
				return printDay(cmd.OutOrStdout(), day)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day (default today)")
	cmd.Flags().StringVar(&typ, "type", "", "breakfast, lunch or dinner (required)")
	return cmd
}

func printDay(w io.Writer, day meal.DaySchedule) error {
	if asJSON {
		return printJSON(w, day)
	}
	full := ""
	if day.FullDaySelected() {
		full = " (full day)"
	}
	fmt.Fprintf(w, "%s%s\n", day.Date, full)
	if len(day.Meals) == 0 {
		fmt.Fprintln(w, "  no menu")
		return nil
	}
	for _, m := range day.Meals {
		mark := "[x]"
		if !m.Selected {
			mark = "[ ]"
		}
		lock := ""
		if !m.CanModify {
			lock = " (locked)"
		}
		names := make([]string, len(m.Items))
		for i, it := range m.Items {
			names[i] = it.Name
		}
		fmt.Fprintf(w, "  %s %-9s %-10s %s%s\n", mark, m.Type.Title(), m.ID, strings.Join(names, ", "), lock)
	}
	return nil
}

// --------------------------------------------------------------------
// Portal
// --------------------------------------------------------------------

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show dashboard counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				st, err := c.GetDashboardStats(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), st)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updates: %d\nComplaints: %d\nPending rent: %.2f (%d months)\n",
					st.DailyUpdateCount, st.ComplaintCount, st.PendingRentAmount, st.PendingRentMonths)
				return nil
			})
		},
	}
}

func newUpdatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "updates",
		Short: "List daily updates from your PG",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				ups, err := c.ListDailyUpdates(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), ups)
				}
				for _, u := range ups {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s] %s\n", u.CreatedAt.Format("2006-01-02"), u.ContentType, u.Title)
				}
				return nil
			})
		},
	}
}

func newComplaintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complaints",
		Short: "List or submit complaints",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your complaints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				cs, err := c.ListComplaints(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), cs)
				}
				for _, cp := range cs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s %-12s %s\n", cp.ID, cp.Status, cp.Category, cp.Subject)
				}
				return nil
			})
		},
	}

	var req client.SubmitComplaintRequest
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Raise a complaint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				if err := c.SubmitComplaint(ctx, req); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Complaint submitted")
				return nil
			})
		},
	}
	submit.Flags().StringVar(&req.Subject, "subject", "", "Subject (required)")
	submit.Flags().StringVar(&req.Description, "description", "", "Description (required)")
	submit.Flags().StringVar(&req.Category, "category", "", "Category (required)")

	cmd.AddCommand(list, submit)
	return cmd
}

func newRentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rent",
		Short: "Show your rent ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				l, err := c.ListRentPayments(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), l)
				}
				for _, p := range l.RentList {
					fmt.Fprintf(cmd.OutOrStdout(), "%04d-%02d  %-8s rent %.2f pending %.2f\n", p.Year, p.Month, p.Status, p.RentAmount, p.Pending)
				}
				return nil
			})
		},
	}
}

func newProfileCmd() *cobra.Command {
	show := func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client.Client) error {
			p, err := c.GetProfile(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), p)
			}
			cu := p.Customer
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> %s\nPG: %s, %s\nRoom: %s\n",
				cu.CustomerName, cu.Email, cu.MobileNo, p.PGName, cu.Branch.BranchName, cu.Room.RoomID)
			return nil
		})
	}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		RunE:  show,
	}
	cmd.AddCommand(&cobra.Command{Use: "show", Short: "Show your profile", RunE: show})

	var req client.UpdateProfileRequest
	update := &cobra.Command{
		Use:   "update",
		Short: "Update name, mobile and email",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				if err := c.UpdateProfile(ctx, req); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Profile updated")
				return nil
			})
		},
	}
	update.Flags().StringVar(&req.Name, "name", "", "Full name (required)")
	update.Flags().StringVar(&req.Mobile, "mobile", "", "Mobile number (required)")
	update.Flags().StringVar(&req.Email, "email", "", "Email (required)")
	cmd.AddCommand(update)
	return cmd
}
