package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

type (
	// TxType is the direction of a transaction. Persisted amounts are
	// always non-negative; the direction lives here, not in the sign.
	TxType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a persisted ledger entry. The import pipeline only
	// ever appends these; edits and deletes come from user actions.
	Transaction struct {
		ID          int64
		Amount      Money
		Type        TxType
		Category    string
		Description string
		Date        Date
		Recurring   bool
		// ExternalID is the upstream feed identifier and the sole
		// deduplication key. Empty for manually entered transactions.
		ExternalID string
		AccountID  string
	}

	// RawTransaction is a feed entry as the bank provider delivers it:
	// signed amount, no category, external identifier if the feed has one.
	RawTransaction struct {
		ExternalID   string
		Description  string
		SignedAmount decimal.Decimal
		Date         Date
	}

	// ConnectedAccount is one linked external bank account plus its
	// sync bookkeeping.
	ConnectedAccount struct {
		ID                int64
		AccountExternalID string
		InstitutionID     string
		InstitutionName   string
		AccountName       string
		AccountType       string
		PublicToken       string
		AccessToken       string
		ConnectedAt       time.Time
		LastSync          *time.Time
	}

	// LinkMetadata carries the institution/account descriptors returned
	// by the bank-link handshake.
	LinkMetadata struct {
		InstitutionID   string
		InstitutionName string
		AccountName     string
		AccountType     string
	}

	// SyncResult summarizes one sync pass for the caller.
	SyncResult struct {
		Imported          int
		DuplicatesSkipped int
		AccountName       string
	}

	Budget struct {
		ID       int64
		Category string
		Limit    Money
		Year     int
		Month    int
	}

	Bill struct {
		ID        int64
		Name      string
		Amount    Money
		DueDay    int
		Paid      bool
		Recurring bool
	}

	Goal struct {
		ID       int64
		Name     string
		Target   Money
		Saved    Money
		Deadline Date
	}

	// ReportType selects what a saved report produces when run:
	// aggregated totals, the raw transaction list, or a per-category
	// breakdown for charting.
	ReportType string

	// Report is a saved report definition. Running it aggregates the
	// transactions inside its date range and stamps LastRun.
	Report struct {
		ID          int64
		Name        string
		Description string
		Type        ReportType
		StartDate   Date
		EndDate     Date
		LastRun     *time.Time
	}
)

const (
	ReportSummary ReportType = "summary"
	ReportDetail  ReportType = "detail"
	ReportChart   ReportType = "chart"
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")

	ErrAccountNotFound = errors.New("connected account not found")
	ErrInvalidLinkData = errors.New("invalid bank link data")
)

func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate creates a Date at day precision in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to day precision.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return t.Amount.Validate()
}

func (a ConnectedAccount) Validate() error {
	if strings.TrimSpace(a.AccountExternalID) == "" {
		return errors.New("empty account external id")
	}
	if strings.TrimSpace(a.InstitutionName) == "" {
		return errors.New("empty institution name")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Month < 1 || b.Month > 12 {
		return errors.New("invalid budget month")
	}
	if b.Limit.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("empty bill name")
	}
	if b.DueDay < 1 || b.DueDay > 31 {
		return errors.New("invalid due day")
	}
	if b.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return errors.New("empty goal name")
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidAmount
	}
	if g.Saved.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t ReportType) Valid() bool {
	return t == ReportSummary || t == ReportDetail || t == ReportChart
}

func (r Report) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("empty report name")
	}
	if !r.Type.Valid() {
		return errors.New("invalid report type")
	}
	if err := r.StartDate.Validate(); err != nil {
		return err
	}
	if err := r.EndDate.Validate(); err != nil {
		return err
	}
	if r.EndDate.Before(r.StartDate.Time) {
		return errors.New("report end date before start date")
	}
	return nil
}
