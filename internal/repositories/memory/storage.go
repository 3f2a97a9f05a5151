// Package memory - хранилище в памяти процесса. Данные живут до остановки сервера.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
)

type state struct {
	users     map[uint64]entities.User
	assets    map[uint64]entities.Asset
	transfers map[uint64]entities.Transfer
	repairs   map[uint64]entities.Repair

	nextUserID     uint64
	nextAssetID    uint64
	nextTransferID uint64
	nextRepairID   uint64

	lastStamp time.Time
}

func newState() *state {
	return &state{
		users:     make(map[uint64]entities.User),
		assets:    make(map[uint64]entities.Asset),
		transfers: make(map[uint64]entities.Transfer),
		repairs:   make(map[uint64]entities.Repair),
	}
}

func (st *state) clone() state {
	cp := *st
	cp.users = make(map[uint64]entities.User, len(st.users))
	for k, v := range st.users {
		cp.users[k] = v
	}
	cp.assets = make(map[uint64]entities.Asset, len(st.assets))
	for k, v := range st.assets {
		cp.assets[k] = v
	}
	cp.transfers = make(map[uint64]entities.Transfer, len(st.transfers))
	for k, v := range st.transfers {
		cp.transfers[k] = v
	}
	cp.repairs = make(map[uint64]entities.Repair, len(st.repairs))
	for k, v := range st.repairs {
		cp.repairs[k] = v
	}
	return cp
}

// stamp возвращает строго возрастающую метку времени с точностью до микросекунды.
func (st *state) stamp(now time.Time) time.Time {
	t := now.UTC().Truncate(time.Microsecond)
	if !t.After(st.lastStamp) {
		t = st.lastStamp.Add(time.Microsecond)
	}
	st.lastStamp = t
	return t
}

type Storage struct {
	mu     *sync.RWMutex
	st     *state
	inTx   bool
	policy *repositories.RegistrationPolicy
	now    func() time.Time
	logger *zap.Logger
}

func NewStorage(policy *repositories.RegistrationPolicy, logger *zap.Logger) *Storage {
	return &Storage{
		mu:     &sync.RWMutex{},
		st:     newState(),
		policy: policy,
		now:    time.Now,
		logger: logger,
	}
}

// Внутри транзакции блокировка уже удерживается RunInTransaction.
func (s *Storage) lock() {
	if !s.inTx {
		s.mu.Lock()
	}
}

func (s *Storage) unlock() {
	if !s.inTx {
		s.mu.Unlock()
	}
}

func (s *Storage) rlock() {
	if !s.inTx {
		s.mu.RLock()
	}
}

func (s *Storage) runlock() {
	if !s.inTx {
		s.mu.RUnlock()
	}
}

func (s *Storage) Users() repositories.UserRepositoryInterface {
	return &userRepository{s: s, RegistrationPolicy: s.policy}
}

func (s *Storage) Assets() repositories.AssetRepositoryInterface {
	return &assetRepository{s: s}
}

func (s *Storage) Transfers() repositories.TransferRepositoryInterface {
	return &transferRepository{s: s}
}

func (s *Storage) Repairs() repositories.RepairRepositoryInterface {
	return &repairRepository{s: s}
}

// RunInTransaction удерживает блокировку записи на всё время fn
// и восстанавливает снимок состояния при ошибке или панике.
func (s *Storage) RunInTransaction(ctx context.Context, fn func(tx repositories.Storage) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	tx := &Storage{mu: s.mu, st: s.st, inTx: true, policy: s.policy, now: s.now, logger: s.logger}

	defer func() {
		if p := recover(); p != nil {
			*s.st = snapshot
			panic(p)
		}
		if err != nil {
			*s.st = snapshot
			s.logger.Debug("Транзакция в памяти отменена", zap.Error(err))
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}
	err = fn(tx)
	return err
}

func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Storage) Close() {}

// newestFirst - порядок выдачи списков: created_at по убыванию, затем id по убыванию.
func newestFirst(aCreated, bCreated time.Time, aID, bID uint64) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.After(bCreated)
	}
	return aID > bID
}

func sortAssets(list []entities.Asset) {
	sort.Slice(list, func(i, j int) bool {
		return newestFirst(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID)
	})
}

func sortTransfers(list []entities.Transfer) {
	sort.Slice(list, func(i, j int) bool {
		return newestFirst(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID)
	})
}

func sortRepairs(list []entities.Repair) {
	sort.Slice(list, func(i, j int) bool {
		return newestFirst(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID)
	})
}
