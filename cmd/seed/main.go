package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jayu6624/PRODIGY-FS-02/internal/auth"
	"github.com/jayu6624/PRODIGY-FS-02/internal/config"
	"github.com/jayu6624/PRODIGY-FS-02/internal/db"
	apperrors "github.com/jayu6624/PRODIGY-FS-02/internal/errors"
	"github.com/jayu6624/PRODIGY-FS-02/internal/logger"
	"github.com/jayu6624/PRODIGY-FS-02/internal/model"
	"github.com/jayu6624/PRODIGY-FS-02/internal/repository"
	"github.com/jayu6624/PRODIGY-FS-02/internal/service"
)

const fetchTimeout = 30 * time.Second

// SeedEmployeeData is one employee in a seed file. It uses the same field names as the API.
type SeedEmployeeData struct {
	EmployeeCode string          `json:"employeeID"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Email        string          `json:"email"`
	Position     string          `json:"position"`
	Department   string          `json:"department"`
	StartDate    string          `json:"startDate"`
	Salary       decimal.Decimal `json:"salary"`
	Status       string          `json:"status"`
}

var sampleEmployees = []SeedEmployeeData{
	{FirstName: "Grace", LastName: "Hopper", Email: "grace.hopper@example.com", Position: "Principal Engineer", Department: "Engineering", StartDate: "2021-03-01", Salary: decimal.NewFromInt(145000)},
	{FirstName: "Don", LastName: "Draper", Email: "don.draper@example.com", Position: "Creative Director", Department: "Marketing", StartDate: "2020-06-15", Salary: decimal.NewFromInt(120000)},
	{FirstName: "Jordan", LastName: "Belfort", Email: "jordan.belfort@example.com", Position: "Account Executive", Department: "Sales", StartDate: "2022-01-10", Salary: decimal.NewFromInt(90000), Status: "Inactive"},
	{FirstName: "Toby", LastName: "Flenderson", Email: "toby.flenderson@example.com", Position: "HR Representative", Department: "HR", StartDate: "2019-09-23", Salary: decimal.NewFromInt(65000)},
	{FirstName: "Oscar", LastName: "Martinez", Email: "oscar.martinez@example.com", Position: "Senior Accountant", Department: "Finance", StartDate: "2018-11-05", Salary: decimal.RequireFromString("78500.50")},
}

func main() {
	email := flag.String("email", "admin@example.com", "email of the user that will own the seeded employees")
	password := flag.String("password", "admin123", "password of the owning user; the user is registered if it does not exist")
	file := flag.String("file", "", "path to a JSON array of employees")
	url := flag.String("url", "", "URL serving a JSON array of employees")
	flag.Parse()

	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, db.Options{Logger: zl})
	if err != nil {
		zl.Fatal("connect to database", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		zl.Fatal("migrate database", zap.Error(err))
	}

	items, source, err := loadEmployees(*file, *url)
	if err != nil {
		zl.Fatal("load employees", zap.Error(err))
	}
	zl.Info("loaded employees", zap.String("source", source), zap.Int("count", len(items)))

	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL), auth.NewTokenStore(nil))
	employeeService := service.NewEmployeeService(repository.NewEmployeeRepository(gormDB))

	ctx := context.Background()
	owner, err := ensureOwner(ctx, authService, *email, *password)
	if err != nil {
		zl.Fatal("resolve owner", zap.String("email", *email), zap.Error(err))
	}

	result := seedEmployees(ctx, employeeService, owner.ID, items)
	for _, failure := range result.Failures {
		zl.Warn("skipped employee", zap.Error(failure))
	}
	zl.Info("seed completed",
		zap.String("owner", owner.Email),
		zap.Int("created", result.Created),
		zap.Int("existing", result.Existing),
		zap.Int("failed", len(result.Failures)),
	)
}

func loadEmployees(file, url string) ([]SeedEmployeeData, string, error) {
	switch {
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, file, fmt.Errorf("open seed file: %w", err)
		}
		defer f.Close()
		items, err := decodeEmployees(f)
		return items, file, err
	case url != "":
		items, err := fetchEmployees(url)
		return items, url, err
	default:
		return sampleEmployees, "built-in sample", nil
	}
}

// fetchEmployees downloads a seed file over HTTP.
func fetchEmployees(url string) ([]SeedEmployeeData, error) {
	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
	}
	return decodeEmployees(resp.Body)
}

func decodeEmployees(r io.Reader) ([]SeedEmployeeData, error) {
	var items []SeedEmployeeData
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return items, nil
}

// ensureOwner logs in as email, registering the user first when it does not exist yet.
func ensureOwner(ctx context.Context, authService service.AuthService, email, password string) (*model.User, error) {
	_, user, err := authService.Login(ctx, email, password)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		return nil, err
	}

	_, user, err = authService.Register(ctx, service.RegisterInput{
		FirstName: "Seed",
		LastName:  "Admin",
		Email:     email,
		Password:  password,
	})
	if errors.Is(err, apperrors.ErrUserAlreadyExists) {
		return nil, fmt.Errorf("user exists but the password does not match: %w", err)
	}
	return user, err
}

type seedResult struct {
	Created  int
	Existing int
	Failures []error
}

// seedEmployees creates each employee for ownerID. Employees whose email or code is
// already taken count as existing, so the seeder can be re-run safely.
func seedEmployees(ctx context.Context, employeeService service.EmployeeService, ownerID uuid.UUID, items []SeedEmployeeData) seedResult {
	var result seedResult
	for _, item := range items {
		in, err := item.toInput()
		if err == nil {
			_, err = employeeService.Create(ctx, ownerID, in)
		}
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, apperrors.ErrEmployeeConflict):
			result.Existing++
		default:
			result.Failures = append(result.Failures, fmt.Errorf("%s: %w", item.Email, err))
		}
	}
	return result
}

func (d SeedEmployeeData) toInput() (service.CreateEmployeeInput, error) {
	startDate, err := service.ParseStartDate(d.StartDate)
	if err != nil {
		return service.CreateEmployeeInput{}, err
	}
	salary := d.Salary
	return service.CreateEmployeeInput{
		EmployeeCode: d.EmployeeCode,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		Position:     d.Position,
		Department:   model.Department(d.Department),
		StartDate:    startDate,
		Salary:       &salary,
		Status:       model.EmployeeStatus(d.Status),
	}, nil
}
