package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

const (
	maxDescriptionLen  = 200
	maxTemplateNameLen = 100
	maxCategoryNameLen = 100
)

// MaxAmount is the largest amount accepted for a transaction or template.
var MaxAmount = decimal.NewFromInt(1_000_000)

type (
	TransactionType string

	Theme string

	// Transaction is a ledger entry as returned by the upstream service.
	Transaction struct {
		ID           int64           `json:"id"`
		Description  string          `json:"description"`
		Amount       decimal.Decimal `json:"amount"`
		Type         TransactionType `json:"type"`
		Date         string          `json:"date"` // YYYY-MM-DD
		Category     *int64          `json:"category"`
		CategoryName *string         `json:"category_name"`
	}

	// TransactionInput is the create/update payload for a transaction.
	TransactionInput struct {
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Type        TransactionType `json:"type"`
		Date        string          `json:"date"`
		Category    *int64          `json:"category,omitempty"`
	}

	// Category is a user category with its budget ceiling and the amount
	// spent against it in the current period.
	Category struct {
		ID     int64           `json:"id"`
		Name   string          `json:"name"`
		Color  string          `json:"color"`
		Icon   string          `json:"icon"`
		Type   TransactionType `json:"type"`
		Budget decimal.Decimal `json:"budget"`
		Count  int             `json:"count"`
		Spent  decimal.Decimal `json:"spent"`
	}

	// CategoryInput is the create/update payload for a category.
	CategoryInput struct {
		Name   string          `json:"name"`
		Color  string          `json:"color"`
		Icon   string          `json:"icon"`
		Type   TransactionType `json:"type"`
		Budget decimal.Decimal `json:"budget"`
	}

	// TransactionTemplate is a reusable, locally stored transaction preset.
	TransactionTemplate struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Type        TransactionType `json:"type"`
	}

	// Preferences is the per-installation UI state owned by the application
	// shell and handed to pages explicitly.
	Preferences struct {
		Theme            Theme `json:"theme"`
		SidebarCollapsed bool  `json:"sidebar_collapsed"`
	}
)

var (
	ErrEmptyDescription    = errors.New("description is required")
	ErrDescriptionTooLong  = errors.New("description must be less than 200 characters")
	ErrEmptyTemplateName   = errors.New("template name is required")
	ErrTemplateNameTooLong = errors.New("name must be less than 100 characters")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrAmountTooLarge      = errors.New("amount must be less than 1,000,000")
	ErrEmptyCategory       = errors.New("category is required")
	ErrInvalidType         = errors.New("type must be income or expense")
	ErrInvalidDate         = errors.New("date must be YYYY-MM-DD")
	ErrEmptyCategoryName   = errors.New("category name is required")
	ErrCategoryNameTooLong = errors.New("category name must be less than 100 characters")
	ErrNegativeBudget      = errors.New("budget cannot be negative")
	ErrInvalidTheme        = errors.New("theme must be light, dark or system")
)

// DefaultPreferences is used until the user saves their own.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeSystem}
}

// DefaultTemplates seeds an empty template store.
func DefaultTemplates() []TransactionTemplate {
	return []TransactionTemplate{
		{Name: "Monthly Rent", Description: "Rent payment", Amount: decimal.NewFromInt(1200), Category: "Home", Type: Expense},
		{Name: "Salary", Description: "Monthly salary", Amount: decimal.NewFromInt(5000), Category: "Income", Type: Income},
		{Name: "Grocery Shopping", Description: "Weekly groceries", Amount: decimal.NewFromInt(150), Category: "Food", Type: Expense},
	}
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (t Theme) Validate() error {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return nil
	default:
		return ErrInvalidTheme
	}
}

func (p Preferences) Validate() error {
	return p.Theme.Validate()
}

func (in TransactionInput) Validate() error {
	if err := validateDescription(in.Description); err != nil {
		return err
	}
	if err := validateAmount(in.Amount); err != nil {
		return err
	}
	if err := in.Type.Validate(); err != nil {
		return err
	}
	if _, err := time.Parse(time.DateOnly, in.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (in CategoryInput) Validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ErrEmptyCategoryName
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return ErrCategoryNameTooLong
	}
	if err := in.Type.Validate(); err != nil {
		return err
	}
	if in.Budget.IsNegative() {
		return ErrNegativeBudget
	}
	return nil
}

func (t TransactionTemplate) Validate() error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return ErrEmptyTemplateName
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return ErrTemplateNameTooLong
	}
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	if err := validateAmount(t.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return t.Type.Validate()
}

// Normalize trims the free-text fields the way validation sees them.
func (t TransactionTemplate) Normalize() TransactionTemplate {
	t.Name = strings.TrimSpace(t.Name)
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)
	return t
}

func validateDescription(desc string) error {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}
