package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"learnhub/internal/events"
	"learnhub/internal/models"
	"learnhub/internal/repositories"
)

// In-memory repository fakes. Each fake guards its state with a mutex so the
// concurrency tests exercise the same per-user atomicity the SQL layer
// provides with transactions and row locks.

// ===============================
// POINTS
// ===============================

type fakePointsRepo struct {
	mu          sync.Mutex
	balances    map[int64]*models.PointBalance
	txns        []*models.PointTransaction
	nextID      int64
	memberships map[int64]models.ScopeMembership
	now         func() time.Time
}

func newFakePointsRepo() *fakePointsRepo {
	return &fakePointsRepo{
		balances:    make(map[int64]*models.PointBalance),
		memberships: make(map[int64]models.ScopeMembership),
		now:         time.Now,
	}
}

func (f *fakePointsRepo) Earn(ctx context.Context, userID, amount int64, reason string) (*models.PointTransaction, *models.PointBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.balances[userID]
	if !ok {
		b = &models.PointBalance{UserID: userID}
		f.balances[userID] = b
	}
	b.TotalEarned += amount
	b.CurrentBalance += amount
	b.UpdatedAt = f.now()

	f.nextID++
	txn := &models.PointTransaction{
		ID:        f.nextID,
		UserID:    userID,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: f.now(),
	}
	f.txns = append(f.txns, txn)

	balance := *b
	return txn, &balance, nil
}

func (f *fakePointsRepo) Spend(ctx context.Context, userID, amount int64, reason string) (*models.PointTransaction, *models.PointBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.balances[userID]
	if !ok || b.CurrentBalance < amount {
		return nil, nil, repositories.ErrInsufficientBalance
	}
	b.TotalSpent += amount
	b.CurrentBalance -= amount
	b.UpdatedAt = f.now()

	f.nextID++
	txn := &models.PointTransaction{
		ID:        f.nextID,
		UserID:    userID,
		Amount:    -amount,
		Reason:    reason,
		CreatedAt: f.now(),
	}
	f.txns = append(f.txns, txn)

	balance := *b
	return txn, &balance, nil
}

func (f *fakePointsRepo) GetBalance(ctx context.Context, userID int64) (*models.PointBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if b, ok := f.balances[userID]; ok {
		balance := *b
		return &balance, nil
	}
	return &models.PointBalance{UserID: userID}, nil
}

func (f *fakePointsRepo) ListTransactions(ctx context.Context, userID int64, params models.PaginationParams) ([]*models.PointTransaction, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var mine []*models.PointTransaction
	for i := len(f.txns) - 1; i >= 0; i-- {
		if f.txns[i].UserID == userID {
			mine = append(mine, f.txns[i])
		}
	}
	total := int64(len(mine))

	if params.Offset >= len(mine) {
		return nil, total, nil
	}
	end := params.Offset + params.Limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[params.Offset:end], total, nil
}

func (f *fakePointsRepo) CountByReason(ctx context.Context, userID int64, reason string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, txn := range f.txns {
		if txn.UserID == userID && txn.Reason == reason && txn.Amount > 0 {
			count++
		}
	}
	return count, nil
}

func (f *fakePointsRepo) setMembership(userID int64, schoolID, classID *int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberships[userID] = models.ScopeMembership{UserID: userID, SchoolID: schoolID, ClassID: classID}
}

func (f *fakePointsRepo) TopEarners(ctx context.Context, scope models.LeaderboardScope, scopeID *int64, since *time.Time, limit int) ([]models.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	type agg struct {
		points int64
		last   time.Time
	}
	sums := make(map[int64]*agg)
	for _, txn := range f.txns {
		if txn.Amount <= 0 {
			continue
		}
		if since != nil && txn.CreatedAt.Before(*since) {
			continue
		}
		if !f.inScope(txn.UserID, scope, scopeID) {
			continue
		}
		a, ok := sums[txn.UserID]
		if !ok {
			a = &agg{}
			sums[txn.UserID] = a
		}
		a.points += txn.Amount
		if txn.CreatedAt.After(a.last) {
			a.last = txn.CreatedAt
		}
	}

	var entries []models.LeaderboardEntry
	for userID, a := range sums {
		entries = append(entries, models.LeaderboardEntry{
			UserID:       userID,
			Points:       a.points,
			LastEarnedAt: a.last,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		if !entries[i].LastEarnedAt.Equal(entries[j].LastEarnedAt) {
			return entries[i].LastEarnedAt.Before(entries[j].LastEarnedAt)
		}
		return entries[i].UserID < entries[j].UserID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakePointsRepo) inScope(userID int64, scope models.LeaderboardScope, scopeID *int64) bool {
	switch scope {
	case models.ScopeSchool:
		m, ok := f.memberships[userID]
		return ok && m.SchoolID != nil && scopeID != nil && *m.SchoolID == *scopeID
	case models.ScopeClass:
		m, ok := f.memberships[userID]
		return ok && m.ClassID != nil && scopeID != nil && *m.ClassID == *scopeID
	}
	return true
}

// ===============================
// STREAKS
// ===============================

type fakeStreakRepo struct {
	mu     sync.Mutex
	states map[int64]*models.StreakState
}

func newFakeStreakRepo() *fakeStreakRepo {
	return &fakeStreakRepo{states: make(map[int64]*models.StreakState)}
}

func (f *fakeStreakRepo) Get(ctx context.Context, userID int64) (*models.StreakState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s, ok := f.states[userID]; ok {
		state := *s
		return &state, nil
	}
	return nil, nil
}

func (f *fakeStreakRepo) Mutate(ctx context.Context, userID int64, fn func(*models.StreakState) (*models.StreakState, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var current *models.StreakState
	if s, ok := f.states[userID]; ok {
		copied := *s
		current = &copied
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if next != nil {
		next.UserID = userID
		next.UpdatedAt = time.Now()
		stored := *next
		f.states[userID] = &stored
	}
	return nil
}

func (f *fakeStreakRepo) GrantFreeze(ctx context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.states[userID]
	if !ok {
		s = &models.StreakState{UserID: userID}
		f.states[userID] = s
	}
	s.FreezesRemaining++
	return s.FreezesRemaining, nil
}

// ===============================
// BADGES
// ===============================

type fakeBadgeRepo struct {
	mu      sync.Mutex
	catalog []*models.Badge
	awards  map[int64]map[string]time.Time
}

func newFakeBadgeRepo(catalog []models.Badge) *fakeBadgeRepo {
	f := &fakeBadgeRepo{awards: make(map[int64]map[string]time.Time)}
	for i := range catalog {
		b := catalog[i]
		b.ID = int64(i + 1)
		f.catalog = append(f.catalog, &b)
	}
	return f
}

func (f *fakeBadgeRepo) SeedCatalog(ctx context.Context, badges []models.Badge) error {
	return nil
}

func (f *fakeBadgeRepo) ListCatalog(ctx context.Context) ([]*models.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var active []*models.Badge
	for _, b := range f.catalog {
		if b.IsActive {
			active = append(active, b)
		}
	}
	return active, nil
}

func (f *fakeBadgeRepo) GetByCode(ctx context.Context, code string) (*models.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.catalog {
		if b.Code == code {
			return b, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeBadgeRepo) ListAwardedCodes(ctx context.Context, userID int64) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	codes := make(map[string]bool)
	for code := range f.awards[userID] {
		codes[code] = true
	}
	return codes, nil
}

func (f *fakeBadgeRepo) ListAwards(ctx context.Context, userID int64) ([]*models.BadgeAward, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var awards []*models.BadgeAward
	for code, at := range f.awards[userID] {
		award := &models.BadgeAward{UserID: userID, BadgeCode: code, AwardedAt: at}
		for _, b := range f.catalog {
			if b.Code == code {
				award.Badge = b
				break
			}
		}
		awards = append(awards, award)
	}
	sort.Slice(awards, func(i, j int) bool { return awards[i].AwardedAt.After(awards[j].AwardedAt) })
	return awards, nil
}

func (f *fakeBadgeRepo) Award(ctx context.Context, userID int64, badgeCode string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.awards[userID] == nil {
		f.awards[userID] = make(map[string]time.Time)
	}
	if _, held := f.awards[userID][badgeCode]; held {
		return false, nil
	}
	f.awards[userID][badgeCode] = time.Now()
	return true, nil
}

// ===============================
// ACTIVITY FEED
// ===============================

type fakeActivityRepo struct {
	mu     sync.Mutex
	items  []*models.ActivityFeedItem
	nextID int64
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{}
}

func (f *fakeActivityRepo) Insert(ctx context.Context, item *models.ActivityFeedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	item.ID = f.nextID
	item.CreatedAt = time.Now()
	stored := *item
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakeActivityRepo) ListByUser(ctx context.Context, userID int64, includePrivate bool, params models.PaginationParams) ([]*models.ActivityFeedItem, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var mine []*models.ActivityFeedItem
	for i := len(f.items) - 1; i >= 0; i-- {
		item := f.items[i]
		if item.UserID != userID {
			continue
		}
		if !item.IsPublic && !includePrivate {
			continue
		}
		mine = append(mine, item)
	}
	total := int64(len(mine))

	if params.Offset >= len(mine) {
		return nil, total, nil
	}
	end := params.Offset + params.Limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[params.Offset:end], total, nil
}

func (f *fakeActivityRepo) itemsOfType(userID int64, itemType string) []*models.ActivityFeedItem {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.ActivityFeedItem
	for _, item := range f.items {
		if item.UserID == userID && item.Type == itemType {
			out = append(out, item)
		}
	}
	return out
}

// ===============================
// ANNOUNCEMENTS
// ===============================

type fakeAnnouncementRepo struct {
	mu     sync.Mutex
	items  map[int64]*models.Announcement
	reads  map[int64]map[int64]time.Time
	nextID int64
}

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{
		items: make(map[int64]*models.Announcement),
		reads: make(map[int64]map[int64]time.Time),
	}
}

func (f *fakeAnnouncementRepo) Create(ctx context.Context, a *models.Announcement) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	stored := *a
	f.items[a.ID] = &stored
	return nil
}

func (f *fakeAnnouncementRepo) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if a, ok := f.items[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAnnouncementRepo) Update(ctx context.Context, a *models.Announcement) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[a.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *a
	f.items[a.ID] = &stored
	return nil
}

func visibleTo(a *models.Announcement, membership models.ScopeMembership, now time.Time) bool {
	if !a.IsActive(now) {
		return false
	}
	switch a.Scope {
	case models.AnnounceAll:
		return true
	case models.AnnounceSchool:
		return membership.SchoolID != nil && a.ScopeID != nil && *membership.SchoolID == *a.ScopeID
	case models.AnnounceClass:
		return membership.ClassID != nil && a.ScopeID != nil && *membership.ClassID == *a.ScopeID
	}
	return false
}

func (f *fakeAnnouncementRepo) ListVisible(ctx context.Context, userID int64, membership models.ScopeMembership, now time.Time) ([]*models.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var visible []*models.Announcement
	for _, a := range f.items {
		if !visibleTo(a, membership, now) {
			continue
		}
		copied := *a
		_, copied.IsRead = f.reads[a.ID][userID]
		visible = append(visible, &copied)
	}
	sort.Slice(visible, func(i, j int) bool {
		if visible[i].IsPinned != visible[j].IsPinned {
			return visible[i].IsPinned
		}
		if !visible[i].PublishAt.Equal(visible[j].PublishAt) {
			return visible[i].PublishAt.After(visible[j].PublishAt)
		}
		return visible[i].ID > visible[j].ID
	})
	return visible, nil
}

func (f *fakeAnnouncementRepo) MarkRead(ctx context.Context, announcementID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.reads[announcementID] == nil {
		f.reads[announcementID] = make(map[int64]time.Time)
	}
	if _, read := f.reads[announcementID][userID]; read {
		return false, nil
	}
	f.reads[announcementID][userID] = time.Now()
	return true, nil
}

func (f *fakeAnnouncementRepo) IsRead(ctx context.Context, announcementID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, read := f.reads[announcementID][userID]
	return read, nil
}

func (f *fakeAnnouncementRepo) UnreadCount(ctx context.Context, userID int64, membership models.ScopeMembership, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, a := range f.items {
		if !visibleTo(a, membership, now) {
			continue
		}
		if _, read := f.reads[a.ID][userID]; !read {
			count++
		}
	}
	return count, nil
}

func (f *fakeAnnouncementRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.items, id)
	delete(f.reads, id)
	return nil
}

// ===============================
// MEMBERSHIPS
// ===============================

type fakeMembershipRepo struct {
	mu          sync.Mutex
	memberships map[int64]*models.ScopeMembership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{memberships: make(map[int64]*models.ScopeMembership)}
}

func (f *fakeMembershipRepo) Get(ctx context.Context, userID int64) (*models.ScopeMembership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := f.memberships[userID]; ok {
		copied := *m
		return &copied, nil
	}
	return &models.ScopeMembership{UserID: userID}, nil
}

func (f *fakeMembershipRepo) Set(ctx context.Context, m *models.ScopeMembership) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *m
	f.memberships[m.UserID] = &stored
	return nil
}

// ===============================
// EVENT BUS
// ===============================

// captureBus records published events synchronously for assertions
type captureBus struct {
	mu     sync.Mutex
	events []events.Event
}

func newCaptureBus() *captureBus {
	return &captureBus{}
}

func (b *captureBus) Publish(ctx context.Context, event events.Event) error {
	return b.record(event)
}

func (b *captureBus) PublishAsync(ctx context.Context, event events.Event) error {
	return b.record(event)
}

func (b *captureBus) record(event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *captureBus) Subscribe(eventType string, handler events.EventHandler) error { return nil }
func (b *captureBus) SubscribePattern(pattern string, handler events.EventHandler) error {
	return nil
}
func (b *captureBus) Start(ctx context.Context) error { return nil }
func (b *captureBus) Stop(ctx context.Context) error  { return nil }
func (b *captureBus) Health() error                   { return nil }

func (b *captureBus) eventsOfType(eventType string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []events.Event
	for _, e := range b.events {
		if e.GetEventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}
