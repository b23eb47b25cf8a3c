package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"sportpulse/pkg/client/api"
	"sportpulse/pkg/client/wizard"

	"github.com/spf13/cobra"
)

func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) registerCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.Auth.Register(ctx, args[0], args[1], pw); err != nil {
				return err
			}
			st := c.Auth.State()
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Next: sportpulse role <%s>\n",
				st.User.Username, strings.Join(api.Roles, "|"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username-or-email>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.Auth.Login(ctx, args[0], pw); err != nil {
				return err
			}
			st := c.Auth.State()
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (registration: %s)\n", st.User.Username, st.RegistrationStep)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			if err := c.Auth.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (a *app) meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.Auth.FetchSelf(ctx); err != nil {
				return err
			}
			st := c.Auth.State()
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintf(w, "Username\t%s\n", st.User.Username)
			fmt.Fprintf(w, "Email\t%s\n", st.User.Email)
			fmt.Fprintf(w, "Role\t%s\n", orDash(st.Role))
			fmt.Fprintf(w, "Registration\t%s\n", st.RegistrationStep)
			if st.PersonalInfo != nil && st.PersonalInfo.FullName != "" {
				fmt.Fprintf(w, "Name\t%s\n", st.PersonalInfo.FullName)
				fmt.Fprintf(w, "City\t%s\n", st.PersonalInfo.City)
				fmt.Fprintf(w, "Goals\t%s\n", st.PersonalInfo.FitnessGoals)
			}
			return w.Flush()
		},
	}
}

func (a *app) roleCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "role <" + strings.Join(api.Roles, "|") + ">",
		Short:     "Choose the account role",
		Args:      cobra.ExactArgs(1),
		ValidArgs: api.Roles,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.Auth.UpdateRole(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Role set to %s. Next: sportpulse profile\n", c.Auth.State().Role)
			return nil
		},
	}
}

type profileFlags struct {
	fullName, birthdate, gender, city, address string
	height, weight                             float64
	age                                        int
	experience, goals, activity                string
	achievements                               []string
	participation, dataProcessing, marketing   bool
}

func (a *app) profileCmd() *cobra.Command {
	var pf profileFlags
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Complete the personal profile",
		Long: `Fills the three-step profile wizard from flags. Values are kept between
runs, so the profile can be completed over several invocations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.sdk()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := c.Auth.FetchSelf(ctx); err != nil {
				return err
			}
			wz, err := c.Wizard(nil)
			if err != nil {
				return err
			}

			changed := cmd.Flags().Changed
			if err := wz.Update(func(f *wizard.Form) {
				applyProfileFlags(f, pf, changed)
			}); err != nil {
				return err
			}

			for wz.Step() < wizard.StepConsent {
				if err := wz.Next(); err != nil {
					return profileIncomplete(err)
				}
			}
			if err := wz.Submit(ctx); err != nil {
				var stepErr *wizard.StepError
				if errors.As(err, &stepErr) {
					return profileIncomplete(err)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile complete")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&pf.fullName, "full-name", "", "full name")
	f.StringVar(&pf.birthdate, "birthdate", "", "birth date (YYYY-MM-DD)")
	f.StringVar(&pf.gender, "gender", "", "male, female or other")
	f.StringVar(&pf.city, "city", "", "city")
	f.StringVar(&pf.address, "address", "", "street address")
	f.Float64Var(&pf.height, "height", 0, "height in cm")
	f.Float64Var(&pf.weight, "weight", 0, "weight in kg")
	f.IntVar(&pf.age, "age", 0, "age")
	f.StringVar(&pf.experience, "experience", "", "training experience")
	f.StringVar(&pf.goals, "goals", "", "fitness goals")
	f.StringVar(&pf.activity, "activity", "", strings.Join(wizard.ActivityLevels, ", "))
	f.StringSliceVar(&pf.achievements, "achievement", nil, "achievement (repeatable)")
	f.BoolVar(&pf.participation, "accept-participation", false, "accept the participation terms")
	f.BoolVar(&pf.dataProcessing, "accept-data-processing", false, "accept data processing")
	f.BoolVar(&pf.marketing, "marketing", false, "receive marketing messages")
	return cmd
}

func applyProfileFlags(f *wizard.Form, pf profileFlags, changed func(string) bool) {
	set := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	set("full-name", &f.FullName, pf.fullName)
	set("birthdate", &f.Birthdate, pf.birthdate)
	set("gender", &f.Gender, pf.gender)
	set("city", &f.City, pf.city)
	set("address", &f.Address, pf.address)
	set("experience", &f.Experience, pf.experience)
	set("goals", &f.FitnessGoals, pf.goals)
	set("activity", &f.ActivityLevel, pf.activity)
	if changed("height") {
		f.Height = pf.height
	}
	if changed("weight") {
		f.Weight = pf.weight
	}
	if changed("age") {
		f.Age = pf.age
	}
	if changed("achievement") {
		f.Achievements = pf.achievements
	}
	if changed("accept-participation") {
		f.Consents.Participation = pf.participation
	}
	if changed("accept-data-processing") {
		f.Consents.DataProcessing = pf.dataProcessing
	}
	if changed("marketing") {
		f.Consents.Marketing = pf.marketing
	}
}

func profileIncomplete(err error) error {
	return fmt.Errorf("%w (progress saved, rerun with the missing flags)", err)
}
