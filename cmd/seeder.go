package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/stayfix/stayfix/internal"
	"github.com/stayfix/stayfix/internal/employee"
	"github.com/stayfix/stayfix/internal/notification"
	"github.com/stayfix/stayfix/internal/notificationprofile"
	"github.com/stayfix/stayfix/internal/orgunit"
	"github.com/stayfix/stayfix/internal/residencetitle"
	"github.com/stayfix/stayfix/internal/user"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

var (
	clearData   bool
	seedFixture string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		raw, err := os.ReadFile(seedFixture)
		if err != nil {
			return fmt.Errorf("failed to read fixture: %w", err)
		}
		fx, err := parseFixture(raw)
		if err != nil {
			return err
		}

		app, err := newApplication(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		s := &seeder{
			db:        app.Gorm,
			users:     app.Users,
			titles:    app.ResidenceTitles,
			units:     app.OrgUnits,
			rules:     app.Rules,
			profiles:  app.NotificationProfile,
			employees: app.Employees,
			logger:    app.Logger,
		}
		return s.Run(cmd.Context(), fx, clearData)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().StringVarP(&seedFixture, "file", "f", "db/seed/stayfix.yml", "seed fixture file")
}

type fixture struct {
	User            user.CreateUserInput `yaml:"user"`
	ResidenceTitles []fixtureTitle       `yaml:"residence_titles"`
	OrgUnits        []fixtureUnit        `yaml:"org_units"`
	Rules           []fixtureRule        `yaml:"rules"`
	Profiles        []fixtureProfile     `yaml:"notification_profiles"`
	Employees       []fixtureEmployee    `yaml:"employees"`
}

type fixtureTitle struct {
	Name     string  `yaml:"name"`
	Code     *string `yaml:"code"`
	Category *string `yaml:"category"`
	Country  *string `yaml:"country"`
}

type fixtureUnit struct {
	Name            string        `yaml:"name"`
	Role            *string       `yaml:"role"`
	SupervisorName  *string       `yaml:"supervisor_name"`
	SupervisorEmail *string       `yaml:"supervisor_email"`
	Children        []fixtureUnit `yaml:"children"`
}

type fixtureRule struct {
	Name        string         `yaml:"name"`
	Description *string        `yaml:"description"`
	Phases      []fixturePhase `yaml:"phases"`
}

type fixturePhase struct {
	Timing           notification.TimingType `yaml:"timing"`
	Days             float64                 `yaml:"days"`
	NotifyEmployee   bool                    `yaml:"notify_employee"`
	NotifySupervisor bool                    `yaml:"notify_supervisor"`
	OrgUnits         []string                `yaml:"org_units"`
}

type fixtureProfile struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
}

type fixtureEmployee struct {
	FirstName      string  `yaml:"first_name"`
	LastName       string  `yaml:"last_name"`
	Birthdate      string  `yaml:"birthdate"`
	EmployeeNumber *string `yaml:"employee_number"`
	Nationality    *string `yaml:"nationality"`
	OrgUnit        string  `yaml:"org_unit"`
	ResidenceTitle string  `yaml:"residence_title"`
	Rule           string  `yaml:"rule"`
	PermitNumber   *string `yaml:"permit_number"`
	ValidFrom      *string `yaml:"valid_from"`
	ValidUntil     *string `yaml:"valid_until"`
}

func parseFixture(raw []byte) (*fixture, error) {
	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if fx.User.Email == "" || fx.User.Password == "" {
		return nil, errors.New("parse fixture: user.email and user.password are required")
	}
	return &fx, nil
}

// seedTables are cleared child first.
var seedTables = []string{
	"reminder_log",
	"employees",
	"notification_rule_recipients",
	"notification_rule_phases",
	"notification_rules",
	"notification_profiles",
	"residence_titles",
	"org_units",
	"users",
}

type seeder struct {
	db        *gorm.DB
	users     *user.Service
	titles    *residencetitle.Service
	units     *orgunit.Service
	rules     *notification.Service
	profiles  *notificationprofile.Service
	employees *employee.Service
	logger    *slog.Logger
}

func (s *seeder) Run(ctx context.Context, fx *fixture, clear bool) error {
	if clear {
		for _, table := range seedTables {
			if err := s.db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		s.logger.Info("cleared existing data")
	}

	u, err := s.users.Create(ctx, fx.User)
	if errors.Is(err, user.ErrEmailTaken) {
		s.logger.Info("user already exists, skipping seed", "email", fx.User.Email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	s.logger.Info("seeded user", "email", u.Email)

	titleIDs := map[string]string{}
	for i, t := range fx.ResidenceTitles {
		sort := i
		title, err := s.titles.Create(ctx, u.ID, residencetitle.CreateResidenceTitleInput{
			Name:      t.Name,
			Code:      t.Code,
			Category:  t.Category,
			Country:   t.Country,
			SortIndex: &sort,
		})
		if err != nil {
			return fmt.Errorf("seed residence title %s: %w", t.Name, err)
		}
		titleIDs[t.Name] = title.ID
	}

	unitIDs := map[string]string{}
	if err := s.seedUnits(ctx, u.ID, nil, fx.OrgUnits, unitIDs); err != nil {
		return err
	}

	ruleIDs := map[string]string{}
	for _, r := range fx.Rules {
		input := notification.SaveRuleInput{Name: r.Name, Description: r.Description}
		for _, p := range r.Phases {
			days := p.Days
			phase := notification.PhaseInput{
				TimingType:       p.Timing,
				Days:             &days,
				NotifyEmployee:   p.NotifyEmployee,
				NotifySupervisor: p.NotifySupervisor,
			}
			for _, name := range p.OrgUnits {
				id, ok := unitIDs[name]
				if !ok {
					return fmt.Errorf("seed rule %s: unknown org unit %s", r.Name, name)
				}
				phase.OrgUnitIDs = append(phase.OrgUnitIDs, id)
			}
			input.Phases = append(input.Phases, phase)
		}
		id, _, err := s.rules.SaveRule(ctx, u.ID, input)
		if err != nil {
			return fmt.Errorf("seed rule %s: %w", r.Name, err)
		}
		ruleIDs[r.Name] = id
	}

	for _, p := range fx.Profiles {
		if _, err := s.profiles.Create(ctx, u.ID, notificationprofile.CreateProfileInput{Name: p.Name, Description: p.Description}); err != nil {
			return fmt.Errorf("seed notification profile %s: %w", p.Name, err)
		}
	}

	for _, e := range fx.Employees {
		birthdate := e.Birthdate
		input := employee.CreateEmployeeInput{
			FirstName:          e.FirstName,
			LastName:           e.LastName,
			Birthdate:          &birthdate,
			EmployeeNumber:     e.EmployeeNumber,
			Nationality:        e.Nationality,
			OrgUnitID:          lookup(unitIDs, e.OrgUnit),
			ResidenceTitleID:   lookup(titleIDs, e.ResidenceTitle),
			NotificationRuleID: lookup(ruleIDs, e.Rule),
			PermitNumber:       e.PermitNumber,
			ValidFrom:          e.ValidFrom,
			ValidUntil:         e.ValidUntil,
		}
		if _, err := s.employees.Create(ctx, u.ID, input); err != nil {
			var appErr *internal.AppError
			if errors.As(err, &appErr) {
				return fmt.Errorf("seed employee %s %s: %s", e.FirstName, e.LastName, appErr.GetDetailedMessage())
			}
			return fmt.Errorf("seed employee %s %s: %w", e.FirstName, e.LastName, err)
		}
	}

	s.logger.Info("seed complete",
		"residence_titles", len(titleIDs),
		"org_units", len(unitIDs),
		"rules", len(ruleIDs),
		"notification_profiles", len(fx.Profiles),
		"employees", len(fx.Employees))
	return nil
}

func (s *seeder) seedUnits(ctx context.Context, userID string, parentID *string, units []fixtureUnit, ids map[string]string) error {
	for _, fu := range units {
		unit, err := s.units.Create(ctx, userID, orgunit.CreateOrgUnitInput{
			Name:            fu.Name,
			Role:            fu.Role,
			SupervisorName:  fu.SupervisorName,
			SupervisorEmail: fu.SupervisorEmail,
			ParentID:        parentID,
		})
		if err != nil {
			return fmt.Errorf("seed org unit %s: %w", fu.Name, err)
		}
		ids[fu.Name] = unit.ID
		id := unit.ID
		if err := s.seedUnits(ctx, userID, &id, fu.Children, ids); err != nil {
			return err
		}
	}
	return nil
}

// lookup passes unknown names through unchanged so the service rejects them.
func lookup(ids map[string]string, name string) *string {
	if name == "" {
		return nil
	}
	id, ok := ids[name]
	if !ok {
		return &name
	}
	return &id
}
