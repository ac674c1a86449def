package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
	"github.com/sbilibin2017/gw-payment-ledger/internal/repositories"
)

type inTxKey struct{}

var errDuplicateReference = errors.New("duplicate external reference")

type entryKey struct {
	transactionID uuid.UUID
	direction     models.Direction
}

// memStore is an in-memory stand-in for the Postgres repositories. Outer
// transactions are serialized and rolled back by restoring a snapshot.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	profiles      map[uuid.UUID]models.Profile
	entries       map[entryKey]models.BalanceEntry
	txs           map[uuid.UUID]models.WalletTransaction
	verifications map[uuid.UUID]models.VerificationRecord
	contracts     map[uuid.UUID]models.ContractAction
	jobs          int64
}

func newMemStore() *memStore {
	return &memStore{
		profiles:      make(map[uuid.UUID]models.Profile),
		entries:       make(map[entryKey]models.BalanceEntry),
		txs:           make(map[uuid.UUID]models.WalletTransaction),
		verifications: make(map[uuid.UUID]models.VerificationRecord),
		contracts:     make(map[uuid.UUID]models.ContractAction),
	}
}

type memSnapshot struct {
	profiles      map[uuid.UUID]models.Profile
	entries       map[entryKey]models.BalanceEntry
	txs           map[uuid.UUID]models.WalletTransaction
	verifications map[uuid.UUID]models.VerificationRecord
	contracts     map[uuid.UUID]models.ContractAction
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := make(map[uuid.UUID]models.WalletTransaction, len(s.txs))
	for k, v := range s.txs {
		v.Metadata = copyMap(v.Metadata)
		txs[k] = v
	}
	return memSnapshot{
		profiles:      copyMap(s.profiles),
		entries:       copyMap(s.entries),
		txs:           txs,
		verifications: copyMap(s.verifications),
		contracts:     copyMap(s.contracts),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = snap.profiles
	s.entries = snap.entries
	s.txs = snap.txs
	s.verifications = snap.verifications
	s.contracts = snap.contracts
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	snap := s.snapshot()
	txCtx := context.WithValue(repositories.WithTx(ctx, nil), inTxKey{}, true)
	err := fn(txCtx)
	if err != nil {
		s.restore(snap)
	}
	s.txMu.Unlock()

	if err != nil {
		return err
	}
	repositories.RunCommitHooks(txCtx)
	return nil
}

// seedProfile creates a profile with a starting balance recorded as a ledger credit.
func (s *memStore) seedProfile(userID uuid.UUID, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = models.Profile{UserID: userID, WalletBalance: balance, SubscriptionType: models.SubscriptionNone}
	if balance > 0 {
		seed := uuid.New()
		s.entries[entryKey{seed, models.Credit}] = models.BalanceEntry{
			UserID: userID, TransactionID: seed, Direction: models.Credit, Amount: balance, BalanceAfter: balance,
		}
	}
}

func (s *memStore) seedTx(t models.WalletTransaction) *models.WalletTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.ExternalReference == "" {
		t.ExternalReference = "ref_" + t.ID.String()
	}
	t.CreatedAt, t.UpdatedAt = time.Now(), time.Now()
	s.txs[t.ID] = t
	return &t
}

func (s *memStore) balance(userID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[userID].WalletBalance
}

// ledgerSum returns credits minus debits of a user.
func (s *memStore) ledgerSum(userID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, e := range s.entries {
		if e.UserID == userID {
			sum += e.Direction.Signed(e.Amount)
		}
	}
	return sum
}

func (s *memStore) status(id uuid.UUID) models.TransactionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs[id].Status
}

// BalanceStore

func (s *memStore) GetProfile(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, models.ErrProfileNotFound
	}
	return &p, nil
}

func (s *memStore) GetProfileForUpdate(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return s.GetProfile(ctx, userID)
}

func (s *memStore) EnsureProfile(_ context.Context, userID uuid.UUID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[userID]; !ok {
		s.profiles[userID] = models.Profile{UserID: userID, Email: email, SubscriptionType: models.SubscriptionNone}
	}
	return nil
}

func (s *memStore) HasEntry(_ context.Context, transactionID uuid.UUID, direction models.Direction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[entryKey{transactionID, direction}]
	return ok, nil
}

func (s *memStore) ApplyChange(_ context.Context, change models.BalanceChange) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[change.UserID]
	if !ok {
		return 0, false, models.ErrProfileNotFound
	}
	key := entryKey{change.TransactionID, change.Direction}
	if _, ok := s.entries[key]; ok {
		return p.WalletBalance, false, nil
	}
	next := p.WalletBalance + change.Direction.Signed(change.Amount)
	if change.NonNegative && next < 0 {
		return 0, false, models.ErrInsufficientFunds
	}
	s.entries[key] = models.BalanceEntry{
		UserID: change.UserID, TransactionID: change.TransactionID, Direction: change.Direction,
		Amount: change.Amount, BalanceAfter: next, Description: change.Description,
	}
	p.WalletBalance = next
	s.profiles[change.UserID] = p
	return next, true, nil
}

// Transaction store

func (s *memStore) Create(_ context.Context, t *models.WalletTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.txs {
		if existing.ExternalReference == t.ExternalReference {
			return errDuplicateReference
		}
	}
	stored := *t
	stored.Metadata = copyMap(t.Metadata)
	stored.CreatedAt, stored.UpdatedAt = time.Now(), time.Now()
	s.txs[t.ID] = stored
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok {
		return nil, models.ErrTransactionNotFound
	}
	return &t, nil
}

func (s *memStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error) {
	return s.GetByID(ctx, id)
}

func (s *memStore) find(match func(models.WalletTransaction) bool) (*models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txs {
		if match(t) {
			return &t, nil
		}
	}
	return nil, models.ErrTransactionNotFound
}

func (s *memStore) GetByProviderID(_ context.Context, providerID string) (*models.WalletTransaction, error) {
	return s.find(func(t models.WalletTransaction) bool { return t.ProviderID() == providerID })
}

func (s *memStore) GetByExternalReference(_ context.Context, ref string) (*models.WalletTransaction, error) {
	return s.find(func(t models.WalletTransaction) bool { return t.ExternalReference == ref })
}

func (s *memStore) BindProviderID(_ context.Context, id uuid.UUID, providerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok {
		return models.ErrTransactionNotFound
	}
	t.ProviderTransactionID = &providerID
	s.txs[id] = t
	return nil
}

func (s *memStore) UpsertByExternalReference(ctx context.Context, t *models.WalletTransaction) (*models.WalletTransaction, error) {
	if existing, err := s.GetByExternalReference(ctx, t.ExternalReference); err == nil {
		if t.ProviderTransactionID != nil {
			if err := s.BindProviderID(ctx, existing.ID, *t.ProviderTransactionID); err != nil {
				return nil, err
			}
		}
		return s.GetByID(ctx, existing.ID)
	}
	if err := s.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, t.ID)
}

func (s *memStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to models.TransactionStatus, statusDetail, paymentMethodID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	if statusDetail != "" {
		t.StatusDetail = statusDetail
	}
	if paymentMethodID != "" {
		t.PaymentMethodID = paymentMethodID
	}
	t.UpdatedAt = time.Now()
	s.txs[id] = t
	return true, nil
}

func (s *memStore) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error) {
	s.mu.Lock()
	var out []models.WalletTransaction
	for _, t := range s.txs {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) LatestApproved(_ context.Context, userID uuid.UUID, txType models.TransactionType) (*models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.WalletTransaction
	for _, t := range s.txs {
		if t.UserID != userID || t.Type != txType || t.Status != models.StatusApproved {
			continue
		}
		if latest == nil || t.UpdatedAt.After(latest.UpdatedAt) {
			t := t
			latest = &t
		}
	}
	if latest == nil {
		return nil, models.ErrTransactionNotFound
	}
	return latest, nil
}

// ContractStore

func (s *memStore) SetPaymentStatus(_ context.Context, contractID uuid.UUID, action models.ContractAction, _ uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[contractID]; !ok {
		return models.ErrContractNotFound
	}
	s.contracts[contractID] = action
	return nil
}

// memSubscriptions exposes the subscription columns of memStore profiles.
type memSubscriptions struct{ *memStore }

func (s memSubscriptions) GetForUpdate(_ context.Context, userID uuid.UUID) (*models.SubscriptionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, models.ErrProfileNotFound
	}
	state := p.Subscription()
	return &state, nil
}

func (s memSubscriptions) Save(_ context.Context, state models.SubscriptionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[state.UserID]
	if !ok {
		return models.ErrProfileNotFound
	}
	p.SubscriptionType, p.SubscriptionExpiresAt = state.Type, state.ExpiresAt
	s.profiles[state.UserID] = p
	return nil
}

func (s memSubscriptions) ExpireDue(_ context.Context, now time.Time) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for id, p := range s.profiles {
		if p.SubscriptionType == models.SubscriptionPro && p.SubscriptionExpiresAt != nil && !p.SubscriptionExpiresAt.After(now) {
			p.SubscriptionType = models.SubscriptionNone
			s.profiles[id] = p
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// memVerifications exposes identity_verifications rows.
type memVerifications struct{ *memStore }

func (s memVerifications) Get(_ context.Context, userID uuid.UUID) (*models.VerificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.verifications[userID]
	if !ok {
		return &models.VerificationRecord{UserID: userID, Status: models.VerificationNotVerified}, nil
	}
	return &v, nil
}

func (s memVerifications) GetForUpdate(ctx context.Context, userID uuid.UUID) (*models.VerificationRecord, error) {
	return s.Get(ctx, userID)
}

func (s memVerifications) Save(_ context.Context, v *models.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifications[v.UserID] = *v
	return nil
}

// memJobs counts expired job postings.
type memJobs struct{ *memStore }

func (s memJobs) ExpireDue(context.Context, time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.jobs
	s.jobs = 0
	return n, nil
}

// recorder captures post-commit events and notifications.
type recorder struct {
	mu            sync.Mutex
	events        []models.WalletEvent
	notifications []models.Notification
	ledger        []models.Transaction
}

func (r *recorder) Publish(_ context.Context, event models.WalletEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) Send(_ context.Context, n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorder) PublishTransaction(_ context.Context, txn models.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ledger = append(r.ledger, txn)
}

func (r *recorder) eventCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) notificationTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notifications))
	for _, n := range r.notifications {
		out = append(out, n.Type)
	}
	return out
}

// newTestReconciler wires a Reconciler over store without a lock.
func newTestReconciler(store *memStore, rec *recorder) *Reconciler {
	return NewReconciler(store, store, NewBalanceMutator(store), memSubscriptions{store}, store, nil, rec, rec)
}
