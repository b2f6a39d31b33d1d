package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

const (
	EnvLoanDurationInDays = "LENDING_LOAN_DURATION_IN_DAYS"
	EnvMaxBooksPerPatron  = "LENDING_MAX_BOOKS_PER_PATRON"
	EnvBorrowingFeePerDay = "LENDING_BORROWING_FEE_PER_DAY"
	EnvLateFeePerDay      = "LENDING_LATE_FEE_PER_DAY"
)

var (
	// ErrReadingPolicyFileFailed is returned when the policy file cannot be read or parsed.
	ErrReadingPolicyFileFailed = errors.New("reading policy file failed")

	// ErrInvalidPolicyOverride is returned when an env override cannot be parsed.
	ErrInvalidPolicyOverride = errors.New("invalid policy override")
)

// policyFile is the YAML layout. Absent keys keep the default.
type policyFile struct {
	LoanDurationInDays *int    `yaml:"loan_duration_in_days"`
	MaxBooksPerPatron  *int    `yaml:"max_books_per_patron"`
	BorrowingFeePerDay *string `yaml:"borrowing_fee_per_day"`
	LateFeePerDay      *string `yaml:"late_fee_per_day"`
}

// LoadPolicy builds a policy from the defaults, then the YAML file at path (if path is not empty),
// then the LENDING_* env overrides, and validates the result.
func LoadPolicy(path string, lookupEnv func(string) (string, bool)) (core.LoanPolicy, error) {
	policy := core.DefaultLoanPolicy()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return core.LoanPolicy{}, errors.Join(ErrReadingPolicyFileFailed, err)
		}

		file := policyFile{}
		if err = yaml.Unmarshal(raw, &file); err != nil {
			return core.LoanPolicy{}, errors.Join(ErrReadingPolicyFileFailed, err)
		}

		if err = file.applyTo(&policy); err != nil {
			return core.LoanPolicy{}, err
		}
	}

	if err := applyEnvOverrides(&policy, lookupEnv); err != nil {
		return core.LoanPolicy{}, err
	}

	if err := policy.Validate(); err != nil {
		return core.LoanPolicy{}, err
	}

	return policy, nil
}

func (f policyFile) applyTo(policy *core.LoanPolicy) error {
	if f.LoanDurationInDays != nil {
		policy.LoanDurationInDays = *f.LoanDurationInDays
	}

	if f.MaxBooksPerPatron != nil {
		policy.MaxBooksPerPatron = *f.MaxBooksPerPatron
	}

	if f.BorrowingFeePerDay != nil {
		fee, err := decimal.NewFromString(*f.BorrowingFeePerDay)
		if err != nil {
			return errors.Join(ErrReadingPolicyFileFailed, fmt.Errorf("borrowing_fee_per_day: %w", err))
		}

		policy.BorrowingFeePerDay = fee
	}

	if f.LateFeePerDay != nil {
		fee, err := decimal.NewFromString(*f.LateFeePerDay)
		if err != nil {
			return errors.Join(ErrReadingPolicyFileFailed, fmt.Errorf("late_fee_per_day: %w", err))
		}

		policy.LateFeePerDay = fee
	}

	return nil
}

func applyEnvOverrides(policy *core.LoanPolicy, lookupEnv func(string) (string, bool)) error {
	if lookupEnv == nil {
		return nil
	}

	intOverrides := map[string]*int{
		EnvLoanDurationInDays: &policy.LoanDurationInDays,
		EnvMaxBooksPerPatron:  &policy.MaxBooksPerPatron,
	}

	for key, target := range intOverrides {
		if raw, ok := lookupEnv(key); ok {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalidPolicyOverride, key, raw)
			}

			*target = n
		}
	}

	decimalOverrides := map[string]*decimal.Decimal{
		EnvBorrowingFeePerDay: &policy.BorrowingFeePerDay,
		EnvLateFeePerDay:      &policy.LateFeePerDay,
	}

	for key, target := range decimalOverrides {
		if raw, ok := lookupEnv(key); ok {
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalidPolicyOverride, key, raw)
			}

			*target = d
		}
	}

	return nil
}

// ReloadablePolicy is a core.PolicyProvider whose policy can be swapped at runtime.
// Current never blocks and always returns a complete snapshot.
type ReloadablePolicy struct {
	path      string
	lookupEnv func(string) (string, bool)
	current   atomic.Pointer[core.LoanPolicy]
}

// NewReloadablePolicy loads the policy once and fails if it is invalid.
func NewReloadablePolicy(path string, lookupEnv func(string) (string, bool)) (*ReloadablePolicy, error) {
	p := &ReloadablePolicy{path: path, lookupEnv: lookupEnv}

	if err := p.Reload(); err != nil {
		return nil, err
	}

	return p, nil
}

// Reload re-reads the file and env. On error the previous policy stays in force.
func (p *ReloadablePolicy) Reload() error {
	policy, err := LoadPolicy(p.path, p.lookupEnv)
	if err != nil {
		return err
	}

	p.current.Store(&policy)

	return nil
}

func (p *ReloadablePolicy) Current() core.LoanPolicy {
	return *p.current.Load()
}
