package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Seer7-SWE/PayTM-clone/pkg/database"
	"github.com/Seer7-SWE/PayTM-clone/pkg/models"
	"github.com/Seer7-SWE/PayTM-clone/pkg/views"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore backs the fake repositories. WithTransaction holds mu for the whole callback
// and restores a snapshot when the callback fails, mirroring a serializable database.
type memStore struct {
	mu        sync.Mutex
	users     map[int64]models.User
	accounts  map[int64]models.Account
	transfers []models.Transfer
	nextID    int64
	clock     time.Time

	failTransferCreate error
	searchCalls        int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]models.User{},
		accounts: map[int64]models.Account{},
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

// seed creates a user with an account outside any transaction.
func (m *memStore) seed(username string, balance int64) (models.User, models.Account) {
	user := models.User{ID: m.id(), Username: username, PasswordHash: "x"}
	m.users[user.ID] = user
	account := models.Account{ID: m.id(), UserID: user.ID, Balance: balance}
	m.accounts[account.ID] = account
	return user, account
}

func (m *memStore) balanceOf(userID int64) int64 {
	for _, a := range m.accounts {
		if a.UserID == userID {
			return a.Balance
		}
	}
	return -1
}

func (m *memStore) totalBalance() int64 {
	var sum int64
	for _, a := range m.accounts {
		sum += a.Balance
	}
	return sum
}

type snapshot struct {
	users     map[int64]models.User
	accounts  map[int64]models.Account
	transfers []models.Transfer
}

func (m *memStore) snapshot() snapshot {
	s := snapshot{
		users:     make(map[int64]models.User, len(m.users)),
		accounts:  make(map[int64]models.Account, len(m.accounts)),
		transfers: append([]models.Transfer(nil), m.transfers...),
	}
	for k, v := range m.users {
		s.users[k] = v
	}
	for k, v := range m.accounts {
		s.accounts[k] = v
	}
	return s
}

func (m *memStore) restore(s snapshot) {
	m.users, m.accounts, m.transfers = s.users, s.accounts, s.transfers
}

// fakeDB satisfies database.Handle. Statements are never issued against it directly.
type fakeDB struct {
	store *memStore
}

var _ database.Handle = (*fakeDB)(nil)

func (f *fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("fakeDB: unexpected Exec")
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("fakeDB: unexpected Query")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (f *fakeDB) Primary() database.Querier { return f }

func (f *fakeDB) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	snap := f.store.snapshot()
	if err := fn(ctx, nil); err != nil {
		f.store.restore(snap)
		return err
	}
	return nil
}

type fakeUserRepo struct{ store *memStore }

func (r fakeUserRepo) Create(_ context.Context, _ database.Querier, user *models.User) error {
	for _, u := range r.store.users {
		if strings.EqualFold(u.Username, user.Username) {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_username_lower_key"}
		}
	}
	user.ID = r.store.id()
	user.CreatedAt = r.store.tick()
	user.UpdatedAt = user.CreatedAt
	r.store.users[user.ID] = *user
	return nil
}

func (r fakeUserRepo) FindByUsername(_ context.Context, _ database.Querier, username string) (models.User, error) {
	for _, u := range r.store.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return models.User{}, pgx.ErrNoRows
}

func (r fakeUserRepo) FindByID(_ context.Context, _ database.Querier, userID int64) (models.User, error) {
	u, ok := r.store.users[userID]
	if !ok {
		return models.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r fakeUserRepo) Search(_ context.Context, _ database.Querier, term string, excludeUserID int64, limit int) ([]models.User, error) {
	r.store.searchCalls++
	out := make([]models.User, 0)
	for _, u := range r.store.users {
		if u.ID != excludeUserID && strings.Contains(strings.ToLower(u.Username), strings.ToLower(term)) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeAccountRepo struct{ store *memStore }

func (r fakeAccountRepo) Create(_ context.Context, _ database.Querier, account *models.Account) error {
	if account.Balance < 0 {
		return &pgconn.PgError{Code: "23514"}
	}
	account.ID = r.store.id()
	r.store.accounts[account.ID] = *account
	return nil
}

func (r fakeAccountRepo) FindByUserID(_ context.Context, _ database.Querier, userID int64) (models.Account, error) {
	for _, a := range r.store.accounts {
		if a.UserID == userID {
			return a, nil
		}
	}
	return models.Account{}, pgx.ErrNoRows
}

func (r fakeAccountRepo) FindByUsername(ctx context.Context, q database.Querier, username string) (models.Account, models.User, error) {
	user, err := fakeUserRepo(r).FindByUsername(ctx, q, username)
	if err != nil {
		return models.Account{}, models.User{}, err
	}
	account, err := r.FindByUserID(ctx, q, user.ID)
	return account, user, err
}

func (r fakeAccountRepo) LockByIDs(_ context.Context, _ pgx.Tx, accountIDs ...int64) (map[int64]models.Account, error) {
	out := make(map[int64]models.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := r.store.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (r fakeAccountRepo) Debit(_ context.Context, _ database.Querier, accountID int64, amount int64) (bool, error) {
	a, ok := r.store.accounts[accountID]
	if !ok || a.Balance < amount {
		return false, nil
	}
	a.Balance -= amount
	r.store.accounts[accountID] = a
	return true, nil
}

func (r fakeAccountRepo) Credit(_ context.Context, _ database.Querier, accountID int64, amount int64) error {
	a, ok := r.store.accounts[accountID]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Balance += amount
	r.store.accounts[accountID] = a
	return nil
}

type fakeTransferRepo struct{ store *memStore }

func (r fakeTransferRepo) Create(_ context.Context, _ database.Querier, transfer *models.Transfer) error {
	if r.store.failTransferCreate != nil {
		return r.store.failTransferCreate
	}
	transfer.ID = r.store.id()
	transfer.CreatedAt = r.store.tick()
	r.store.transfers = append(r.store.transfers, *transfer)
	return nil
}

func (r fakeTransferRepo) ListByAccount(_ context.Context, _ database.Querier, accountID int64, limit int) ([]models.TransferDetail, error) {
	owner := func(accID int64) models.User {
		return r.store.users[r.store.accounts[accID].UserID]
	}
	out := make([]models.TransferDetail, 0)
	for i := len(r.store.transfers) - 1; i >= 0; i-- {
		t := r.store.transfers[i]
		if t.SenderID != accountID && t.ReceiverID != accountID {
			continue
		}
		sender, receiver := owner(t.SenderID), owner(t.ReceiverID)
		out = append(out, models.TransferDetail{
			Transfer:         t,
			SenderUserID:     sender.ID,
			SenderUsername:   sender.Username,
			ReceiverUserID:   receiver.ID,
			ReceiverUsername: receiver.Username,
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []views.TransferEvent
	err    error
}

func (p *recordingPublisher) PublishTransfer(_ string, event views.TransferEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() {}
