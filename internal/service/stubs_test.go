package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"avyyan/internal/dto"
	"avyyan/internal/model"
	"avyyan/internal/repository"
	"avyyan/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo(users ...*model.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = uuid.New()
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		matches := u.Username == username || (u.Email != nil && strings.EqualFold(*u.Email, username))
		if matches && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(ctx context.Context) ([]model.User, error) {
	all, _ := r.ListAll(ctx)
	out := all[:0]
	for _, u := range all {
		if u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.RoleName == role {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = false
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = true
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Roles ─────────────────────────────────────────────────────────────────────

type stubRoleRepo struct {
	roles map[uuid.UUID]*model.Role
	finds int
}

func newStubRoleRepo() *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[uuid.UUID]*model.Role)}
	for _, role := range model.DefaultRoles() {
		role := role
		role.ID = uuid.New()
		r.roles[role.ID] = &role
	}
	return r
}

func (r *stubRoleRepo) Create(_ context.Context, role *model.Role) error {
	role.ID = uuid.New()
	r.roles[role.ID] = role
	return nil
}

func (r *stubRoleRepo) List(_ context.Context) ([]model.Role, error) {
	out := make([]model.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, *role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*model.Role, error) {
	r.finds++
	for _, role := range r.roles {
		if strings.EqualFold(role.Name, name) {
			return role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRoleRepo) Update(_ context.Context, role *model.Role) error {
	r.roles[role.ID] = role
	return nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.roles, id)
	return nil
}

func (r *stubRoleRepo) byName(name string) *model.Role {
	role, _ := r.FindByName(context.Background(), name)
	return role
}

var _ repository.RoleRepository = (*stubRoleRepo)(nil)

// ── Sales orders ──────────────────────────────────────────────────────────────

type stubSalesOrderRepo struct {
	orders map[uuid.UUID]*model.SalesOrder
}

func newStubSalesOrderRepo() *stubSalesOrderRepo {
	return &stubSalesOrderRepo{orders: make(map[uuid.UUID]*model.SalesOrder)}
}

func (r *stubSalesOrderRepo) Create(_ context.Context, o *model.SalesOrder) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	for i := range o.Items {
		o.Items[i].ID = uuid.New()
		o.Items[i].SalesOrderID = o.ID
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubSalesOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubSalesOrderRepo) FindByVoucher(_ context.Context, voucher string) (*model.SalesOrder, error) {
	for _, o := range r.orders {
		if o.VoucherNumber == voucher {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSalesOrderRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.SalesOrderItem, error) {
	for _, o := range r.orders {
		for i := range o.Items {
			if o.Items[i].ID == id {
				return &o.Items[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSalesOrderRepo) List(_ context.Context, f dto.SalesOrderFilter) ([]model.SalesOrder, int64, error) {
	var out []model.SalesOrder
	for _, o := range r.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Party != "" && !strings.Contains(strings.ToLower(o.PartyName), strings.ToLower(f.Party)) {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VoucherNumber < out[j].VoucherNumber })
	total := int64(len(out))
	start := (f.Page - 1) * f.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + f.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *stubSalesOrderRepo) UpdateHeader(_ context.Context, o *model.SalesOrder) error {
	r.orders[o.ID] = o
	return nil
}

func (r *stubSalesOrderRepo) UpdateStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubSalesOrderRepo) AddItem(_ context.Context, item *model.SalesOrderItem) error {
	o, ok := r.orders[item.SalesOrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.ID = uuid.New()
	o.Items = append(o.Items, *item)
	return nil
}

var _ repository.SalesOrderRepository = (*stubSalesOrderRepo)(nil)

// ── Allotments ────────────────────────────────────────────────────────────────

type stubAllotmentRepo struct {
	allotments map[uuid.UUID]*model.ProductionAllotment
	seq        map[string]int
}

func newStubAllotmentRepo() *stubAllotmentRepo {
	return &stubAllotmentRepo{
		allotments: make(map[uuid.UUID]*model.ProductionAllotment),
		seq:        make(map[string]int),
	}
}

func (r *stubAllotmentRepo) Create(_ context.Context, _ *gorm.DB, a *model.ProductionAllotment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	r.allotments[a.ID] = a
	return nil
}

func (r *stubAllotmentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductionAllotment, error) {
	a, ok := r.allotments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAllotmentRepo) ListBySalesOrder(_ context.Context, salesOrderID uuid.UUID) ([]model.ProductionAllotment, error) {
	var out []model.ProductionAllotment
	for _, a := range r.allotments {
		if a.SalesOrderID == salesOrderID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AllotID < out[j].AllotID })
	return out, nil
}

func (r *stubAllotmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	a, ok := r.allotments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

func (r *stubAllotmentRepo) SetSheetPath(_ context.Context, id uuid.UUID, path string) error {
	a, ok := r.allotments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.SheetPath = &path
	return nil
}

func (r *stubAllotmentRepo) NextSequence(_ context.Context, _ *gorm.DB, period string) (int, error) {
	r.seq[period]++
	return r.seq[period], nil
}

func (r *stubAllotmentRepo) DB() *gorm.DB { return nil }

var _ repository.AllotmentRepository = (*stubAllotmentRepo)(nil)

// ── Inspections ───────────────────────────────────────────────────────────────

type stubInspectionRepo struct {
	list []model.Inspection
}

func (r *stubInspectionRepo) Create(_ context.Context, i *model.Inspection) error {
	i.ID = uuid.New()
	r.list = append(r.list, *i)
	return nil
}

func (r *stubInspectionRepo) FindByRoll(_ context.Context, allotmentID uuid.UUID, roll int) (*model.Inspection, error) {
	for i := range r.list {
		if r.list[i].AllotmentID == allotmentID && r.list[i].RollNumber == roll {
			return &r.list[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInspectionRepo) ListByAllotment(_ context.Context, allotmentID uuid.UUID) ([]model.Inspection, error) {
	var out []model.Inspection
	for _, i := range r.list {
		if i.AllotmentID == allotmentID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].RollNumber < out[b].RollNumber })
	return out, nil
}

var _ repository.InspectionRepository = (*stubInspectionRepo)(nil)

// ── Notifications ─────────────────────────────────────────────────────────────

type stubNotificationRepo struct {
	list []*model.Notification
}

func (r *stubNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	r.list = append(r.list, n)
	return nil
}

func (r *stubNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	for _, n := range r.list {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubNotificationRepo) ListForUser(_ context.Context, userID uuid.UUID, unreadOnly bool, page, limit int) ([]model.Notification, error) {
	var out []model.Notification
	for i := len(r.list) - 1; i >= 0; i-- {
		n := r.list[i]
		if n.UserID != userID || (unreadOnly && n.ReadAt != nil) {
			continue
		}
		out = append(out, *n)
	}
	start := (page - 1) * limit
	if start > len(out) {
		return nil, nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	var c int64
	for _, n := range r.list {
		if n.UserID == userID && n.ReadAt == nil {
			c++
		}
	}
	return c, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, userID, id uuid.UUID, at time.Time) (int64, error) {
	for _, n := range r.list {
		if n.ID == id && n.UserID == userID && n.ReadAt == nil {
			n.ReadAt = &at
			return 1, nil
		}
	}
	return 0, nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	var c int64
	for _, n := range r.list {
		if n.UserID == userID && n.ReadAt == nil {
			n.ReadAt = &at
			c++
		}
	}
	return c, nil
}

func (r *stubNotificationRepo) Update(_ context.Context, n *model.Notification) error {
	for i, existing := range r.list {
		if existing.ID == n.ID {
			r.list[i] = n
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubNotificationRepo) ListPendingRetries(context.Context, time.Time, int) ([]model.Notification, error) {
	return nil, nil
}

func (r *stubNotificationRepo) forUser(id uuid.UUID) []*model.Notification {
	var out []*model.Notification
	for _, n := range r.list {
		if n.UserID == id {
			out = append(out, n)
		}
	}
	return out
}

var _ repository.NotificationRepository = (*stubNotificationRepo)(nil)

// ── Chat ──────────────────────────────────────────────────────────────────────

type stubChatRepo struct {
	msgs []*model.ChatMessage
	tick time.Time
}

func (r *stubChatRepo) Create(_ context.Context, m *model.ChatMessage) error {
	if r.tick.IsZero() {
		r.tick = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	}
	r.tick = r.tick.Add(time.Minute)
	m.ID = uuid.New()
	m.CreatedAt = r.tick
	r.msgs = append(r.msgs, m)
	return nil
}

func between(m *model.ChatMessage, a, b uuid.UUID) bool {
	return (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a)
}

func (r *stubChatRepo) Conversation(_ context.Context, a, b uuid.UUID, page, limit int) ([]model.ChatMessage, error) {
	var newest []model.ChatMessage
	for i := len(r.msgs) - 1; i >= 0; i-- {
		if between(r.msgs[i], a, b) {
			newest = append(newest, *r.msgs[i])
		}
	}
	start := (page - 1) * limit
	if start > len(newest) {
		return nil, nil
	}
	end := start + limit
	if end > len(newest) {
		end = len(newest)
	}
	out := newest[start:end]
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *stubChatRepo) LatestPerPeer(_ context.Context, userID uuid.UUID) ([]model.ChatMessage, error) {
	latest := map[uuid.UUID]model.ChatMessage{}
	for _, m := range r.msgs {
		var peer uuid.UUID
		switch userID {
		case m.SenderID:
			peer = m.RecipientID
		case m.RecipientID:
			peer = m.SenderID
		default:
			continue
		}
		latest[peer] = *m
	}
	out := make([]model.ChatMessage, 0, len(latest))
	for _, m := range latest {
		out = append(out, m)
	}
	return out, nil
}

func (r *stubChatRepo) UnreadByPeer(_ context.Context, userID uuid.UUID) ([]repository.PeerUnread, error) {
	counts := map[uuid.UUID]int64{}
	for _, m := range r.msgs {
		if m.RecipientID == userID && m.ReadAt == nil {
			counts[m.SenderID]++
		}
	}
	var out []repository.PeerUnread
	for peer, n := range counts {
		out = append(out, repository.PeerUnread{PeerID: peer, Unread: n})
	}
	return out, nil
}

func (r *stubChatRepo) MarkConversationRead(_ context.Context, recipientID, senderID uuid.UUID, at time.Time) (int64, error) {
	var n int64
	for _, m := range r.msgs {
		if m.RecipientID == recipientID && m.SenderID == senderID && m.ReadAt == nil {
			m.ReadAt = &at
			n++
		}
	}
	return n, nil
}

var _ repository.ChatRepository = (*stubChatRepo)(nil)

// ── Dispatcher ────────────────────────────────────────────────────────────────

type stubDispatcher struct {
	mu       sync.Mutex
	emails   []worker.NotificationEmailPayload
	sheets   []worker.AllotmentSheetPayload
	emailErr error
}

func (d *stubDispatcher) EnqueueNotificationEmail(_ context.Context, p worker.NotificationEmailPayload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.emailErr != nil {
		return d.emailErr
	}
	d.emails = append(d.emails, p)
	return nil
}

func (d *stubDispatcher) EnqueueAllotmentSheet(_ context.Context, p worker.AllotmentSheetPayload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sheets = append(d.sheets, p)
	return nil
}
