package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"finflow/internal/bank"
	"finflow/internal/categorize"
	"finflow/internal/core"
	"finflow/internal/records"
)

// ExportPublisher emits a message for each newly persisted transaction
// so the ledger worker can mirror it to the external sheet.
type ExportPublisher interface {
	PublishTransactionExport(ctx context.Context, transactionID int64) error
}

// ImportService orchestrates the bank-link and sync flows: link an
// institution, fetch its feed, deduplicate, categorize, persist, stamp
// the account's last sync.
type ImportService struct {
	transactions records.TransactionStore
	accounts     records.AccountStore
	provider     bank.Provider
	publisher    ExportPublisher

	// Serializes syncs per account. Concurrent syncs of the same
	// account would race on the dedup set and double-import.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewImportService(transactions records.TransactionStore, accounts records.AccountStore, provider bank.Provider, publisher ExportPublisher) *ImportService {
	return &ImportService{
		transactions: transactions,
		accounts:     accounts,
		provider:     provider,
		publisher:    publisher,
		locks:        map[int64]*sync.Mutex{},
	}
}

func (s *ImportService) accountLock(id int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// BeginLink starts the link handshake with the bank provider and
// returns the session to complete with Link.
func (s *ImportService) BeginLink(ctx context.Context, institutionID string) (bank.LinkSession, error) {
	return s.provider.BeginLink(ctx, institutionID)
}

// Link performs the account-creation half of the bank-link handshake:
// validates the payload, builds a Connected Account with a fresh
// external identifier and persists it.
func (s *ImportService) Link(ctx context.Context, publicToken string, meta core.LinkMetadata) (core.ConnectedAccount, error) {
	if publicToken == "" || meta.InstitutionName == "" {
		return core.ConnectedAccount{}, core.ErrInvalidLinkData
	}

	account := core.ConnectedAccount{
		AccountExternalID: fmt.Sprintf("acc_%s_%s", meta.InstitutionID, uuid.NewString()),
		InstitutionID:     meta.InstitutionID,
		InstitutionName:   meta.InstitutionName,
		AccountName:       meta.AccountName,
		AccountType:       meta.AccountType,
		PublicToken:       publicToken,
		AccessToken:       "access-" + uuid.NewString(),
		ConnectedAt:       time.Now().UTC(),
	}

	created, err := s.accounts.InsertAccount(ctx, account)
	if err != nil {
		return core.ConnectedAccount{}, fmt.Errorf("persist account: %w", err)
	}

	slog.InfoContext(ctx, "Bank account linked",
		"account_id", created.ID,
		"institution", created.InstitutionName)
	return created, nil
}

// Sync runs one import pass for a single connected account.
//
// Failure semantics: a missing account or a failed feed fetch aborts
// the pass and leaves lastSync unchanged. A record that fails
// validation is logged and skipped without aborting; the reduced
// imported count is the only trace. Any other store error is treated
// as transport-level and aborts.
func (s *ImportService) Sync(ctx context.Context, accountID int64) (core.SyncResult, error) {
	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return core.SyncResult{}, core.ErrAccountNotFound
		}
		return core.SyncResult{}, fmt.Errorf("load account %d: %w", accountID, err)
	}

	existing, err := s.transactions.ListExternalIDs(ctx)
	if err != nil {
		return core.SyncResult{}, fmt.Errorf("load external ids: %w", err)
	}

	raw, err := s.provider.FetchRawTransactions(ctx, account.InstitutionID)
	if err != nil {
		return core.SyncResult{}, fmt.Errorf("fetch feed for %s: %w", account.InstitutionName, err)
	}

	toInsert, skipped := Dedupe(raw, existing)

	imported := 0
	for _, r := range toInsert {
		txType, category := categorize.Categorize(r.Description, r.SignedAmount)
		description := strings.TrimSpace(r.Description)
		if description == "" {
			// A feed row without a merchant string would fail
			// validation and be silently dropped; persist it under a
			// placeholder instead.
			description = "Imported transaction"
		}
		tx := core.Transaction{
			Amount:      core.MoneyFromDecimal(r.SignedAmount),
			Type:        txType,
			Category:    category,
			Description: description,
			Date:        r.Date,
			ExternalID:  r.ExternalID,
			AccountID:   account.AccountExternalID,
		}

		created, err := s.transactions.InsertTransaction(ctx, tx)
		if err != nil {
			if records.IsValidation(err) {
				slog.WarnContext(ctx, "Skipping invalid feed record",
					"external_id", r.ExternalID,
					"description", r.Description,
					"error", err)
				continue
			}
			return core.SyncResult{}, fmt.Errorf("persist transaction %s: %w", r.ExternalID, err)
		}
		imported++

		if err := s.publishExport(ctx, created.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish export message",
				"transaction_id", created.ID, "error", err)
			// Local persist succeeded; the worker's recovery scan
			// picks this one up later.
		}
	}

	if err := s.accounts.UpdateLastSync(ctx, account.ID, time.Now().UTC()); err != nil {
		return core.SyncResult{}, fmt.Errorf("update last sync: %w", err)
	}

	result := core.SyncResult{
		Imported:          imported,
		DuplicatesSkipped: skipped,
		AccountName:       account.InstitutionName,
	}
	slog.InfoContext(ctx, "Sync pass complete",
		"account_id", account.ID,
		"institution", account.InstitutionName,
		"imported", result.Imported,
		"duplicates_skipped", result.DuplicatesSkipped)
	return result, nil
}

// SyncAll runs a sync pass for every connected account. Different
// accounts sync in parallel; the per-account lock still applies.
func (s *ImportService) SyncAll(ctx context.Context) ([]core.SyncResult, error) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	results := make([]core.SyncResult, len(accounts))
	g, ctx := errgroup.WithContext(ctx)
	for i, a := range accounts {
		g.Go(func() error {
			r, err := s.Sync(ctx, a.ID)
			if err != nil {
				return fmt.Errorf("sync account %d: %w", a.ID, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Disconnect removes the account registration. Transactions imported
// for it are kept as historical records.
func (s *ImportService) Disconnect(ctx context.Context, accountID int64) error {
	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return core.ErrAccountNotFound
		}
		return fmt.Errorf("load account %d: %w", accountID, err)
	}
	if err := s.accounts.DeleteAccount(ctx, accountID); err != nil {
		return fmt.Errorf("delete account %d: %w", accountID, err)
	}
	slog.InfoContext(ctx, "Bank account disconnected", "account_id", accountID)
	return nil
}

func (s *ImportService) publishExport(ctx context.Context, transactionID int64) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.PublishTransactionExport(ctx, transactionID)
}
