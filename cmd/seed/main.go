package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"leadflow.backend/internal/config"
	"leadflow.backend/internal/domain/entities"
	pgsource "leadflow.backend/internal/infrastructure/datasources/postgres"
	"leadflow.backend/internal/infrastructure/models"
	"leadflow.backend/internal/infrastructure/repositories"
	"leadflow.backend/internal/usecases"
)

var openSeedDB = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
	sqlDB, err := pgsource.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{PrepareStmt: false})
}

var openSeedSQLDB = func(db *gorm.DB) (io.Closer, error) {
	return db.DB()
}

var migrateSeedDB = func(db *gorm.DB) error {
	return db.AutoMigrate(&models.TeamMember{}, &models.Lead{}, &models.LeadEvent{})
}

// seedRuntime is the part of the usecases the seeder drives
type seedRuntime interface {
	CreateMember(ctx context.Context, input *entities.TeamMemberInput) (*entities.TeamMember, error)
	CreateLead(ctx context.Context, input *entities.CreateLeadInput) (*entities.Lead, error)
}

type seedDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (seedRuntime, io.Closer, error)
	out     io.Writer
}

type seedRuntimeImpl struct {
	*usecases.LeadUsecase
	*usecases.TeamMemberUsecase
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultSeedDeps() seedDeps {
	return seedDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (seedRuntime, io.Closer, error) {
			db, err := openSeedDB(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			sqlDB, err := openSeedSQLDB(db)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}
			if err := migrateSeedDB(db); err != nil {
				_ = sqlDB.Close()
				return nil, nil, fmt.Errorf("failed to migrate db: %w", err)
			}

			leadRepo := repositories.NewLeadRepository(db)
			eventRepo := repositories.NewLeadEventRepository(db)
			memberRepo := repositories.NewTeamMemberRepository(db)
			uow := repositories.NewUnitOfWork(db)
			return seedRuntimeImpl{
				LeadUsecase: usecases.NewLeadUsecase(leadRepo, eventRepo, memberRepo, uow, nil, usecases.LeadUsecaseConfig{
					StoreTimeout: cfg.Leads.StoreTimeout,
				}),
				TeamMemberUsecase: usecases.NewTeamMemberUsecase(memberRepo, leadRepo, eventRepo, uow, nil,
					usecases.ParseTeamDeletePolicy(cfg.Team.DeletePolicy), cfg.Leads.StoreTimeout),
			}, sqlDB, nil
		},
		out: os.Stdout,
	}
}

var memberRoles = []string{"Sales Rep", "Account Executive", "Sales Manager"}

// generateMembers returns n team member inputs with unique emails.
func generateMembers(f *gofakeit.Faker, n int) []*entities.TeamMemberInput {
	out := make([]*entities.TeamMemberInput, 0, n)
	seen := map[string]bool{}
	for len(out) < n {
		email := f.Email()
		if seen[email] {
			continue
		}
		seen[email] = true
		out = append(out, &entities.TeamMemberInput{
			Name:  f.Name(),
			Email: email,
			Role:  f.RandomString(memberRoles),
		})
	}
	return out
}

// generateLeads returns n lead inputs spread over every status and source.
// Roughly half are assigned to one of members.
func generateLeads(f *gofakeit.Faker, n int, members []*entities.TeamMember) []*entities.CreateLeadInput {
	out := make([]*entities.CreateLeadInput, 0, n)
	for i := 0; i < n; i++ {
		in := &entities.CreateLeadInput{
			Name:       f.Name(),
			Email:      f.Email(),
			Phone:      f.Phone(),
			Company:    f.Company(),
			LeadSource: string(entities.LeadSources[i%len(entities.LeadSources)]),
			Status:     string(entities.LeadStatuses[f.Number(0, len(entities.LeadStatuses)-1)]),
		}
		if f.Bool() {
			in.Notes = f.Sentence(8)
		}
		if len(members) > 0 && f.Bool() {
			id := members[f.Number(0, len(members)-1)].ID
			in.AssignedTo = &id
		}
		out = append(out, in)
	}
	return out
}

func runSeed(args []string, deps seedDeps) error {
	if deps.loadEnv == nil {
		deps.loadEnv = func() error { return godotenv.Load() }
	}
	if deps.loadCfg == nil {
		deps.loadCfg = config.Load
	}
	if deps.prepare == nil {
		deps.prepare = defaultSeedDeps().prepare
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	membersFlag := fs.Int("members", 3, "number of team members to create")
	leadsFlag := fs.Int("leads", 25, "number of leads to create")
	seedFlag := fs.Int64("seed", 0, "random seed (0 picks one)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *membersFlag < 0 || *leadsFlag < 0 {
		return fmt.Errorf("--members and --leads must not be negative")
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	f := gofakeit.New(*seedFlag)
	ctx := context.Background()

	members := make([]*entities.TeamMember, 0, *membersFlag)
	for _, in := range generateMembers(f, *membersFlag) {
		m, err := runtime.CreateMember(ctx, in)
		if err != nil {
			return fmt.Errorf("failed creating team member %s: %w", in.Email, err)
		}
		members = append(members, m)
	}

	created := 0
	for _, in := range generateLeads(f, *leadsFlag, members) {
		if _, err := runtime.CreateLead(ctx, in); err != nil {
			return fmt.Errorf("failed creating lead %s: %w", in.Email, err)
		}
		created++
	}

	_, _ = fmt.Fprintf(deps.out, "team_members=%d\n", len(members))
	_, _ = fmt.Fprintf(deps.out, "leads=%d\n", created)
	return nil
}

func main() {
	if err := runSeed(os.Args[1:], defaultSeedDeps()); err != nil {
		log.Fatal(err)
	}
}
