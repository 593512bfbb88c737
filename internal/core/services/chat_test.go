package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
)

type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeChatRepo struct {
	chats   map[uuid.UUID][]uuid.UUID
	deleted []uuid.UUID
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[uuid.UUID][]uuid.UUID)}
}

func (r *fakeChatRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Chat, error) {
	if _, ok := r.chats[id]; !ok {
		return nil, domain.ErrChatNotFound
	}
	return &domain.Chat{ID: id}, nil
}

func (r *fakeChatRepo) FindDirect(_ context.Context, userID, withUserID uuid.UUID) (*domain.Chat, error) {
	for id, members := range r.chats {
		if len(members) == 2 &&
			((members[0] == userID && members[1] == withUserID) ||
				(members[0] == withUserID && members[1] == userID)) {
			return &domain.Chat{ID: id}, nil
		}
	}
	return nil, domain.ErrChatNotFound
}

func (r *fakeChatRepo) Create(_ context.Context, id uuid.UUID, memberIDs ...uuid.UUID) (*domain.Chat, error) {
	r.chats[id] = memberIDs
	return &domain.Chat{ID: id}, nil
}

func (r *fakeChatRepo) MemberIDs(_ context.Context, chatID uuid.UUID) ([]uuid.UUID, error) {
	members, ok := r.chats[chatID]
	if !ok {
		return nil, domain.ErrChatNotFound
	}
	return members, nil
}

func (r *fakeChatRepo) IsMember(_ context.Context, chatID, userID uuid.UUID) (bool, error) {
	for _, id := range r.chats[chatID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeChatRepo) InfosForUser(_ context.Context, userID uuid.UUID) ([]domain.ChatInfo, error) {
	var infos []domain.ChatInfo
	for chatID, members := range r.chats {
		for _, id := range members {
			if id == userID {
				for _, peer := range members {
					if peer != userID {
						infos = append(infos, domain.ChatInfo{ChatID: chatID, PeerID: peer})
					}
				}
			}
		}
	}
	return infos, nil
}

func (r *fakeChatRepo) Delete(_ context.Context, chatID uuid.UUID) error {
	if _, ok := r.chats[chatID]; !ok {
		return domain.ErrChatNotFound
	}
	delete(r.chats, chatID)
	r.deleted = append(r.deleted, chatID)
	return nil
}

type fakeMessageRepo struct {
	messages map[uuid.UUID]domain.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[uuid.UUID]domain.Message)}
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	return &m, nil
}

func (r *fakeMessageRepo) Create(_ context.Context, m *domain.Message) error {
	r.messages[m.ID] = *m
	return nil
}

func (r *fakeMessageRepo) UpdateContent(_ context.Context, id uuid.UUID, content string) error {
	m, ok := r.messages[id]
	if !ok {
		return domain.ErrMessageNotFound
	}
	m.Content = content
	r.messages[id] = m
	return nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.messages[id]; !ok {
		return domain.ErrMessageNotFound
	}
	delete(r.messages, id)
	return nil
}

func (r *fakeMessageRepo) FetchHistory(_ context.Context, chatID uuid.UUID, since, until *time.Time, count int) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.messages {
		if m.ChatID != chatID {
			continue
		}
		if since != nil && m.Timestamp.Before(*since) {
			continue
		}
		if until != nil && m.Timestamp.After(*until) {
			continue
		}
		out = append(out, m)
	}
	if count > 0 && len(out) > count {
		out = out[:count]
	}
	return out, nil
}

type fakePresence struct {
	online map[uuid.UUID]bool
}

func (p *fakePresence) MarkOnline(_ context.Context, id uuid.UUID, _ time.Duration) error {
	p.online[id] = true
	return nil
}

func (p *fakePresence) MarkOffline(_ context.Context, id uuid.UUID) error {
	delete(p.online, id)
	return nil
}

func (p *fakePresence) IsOnline(_ context.Context, id uuid.UUID) (bool, error) {
	return p.online[id], nil
}

type captureAnnouncer struct {
	targets []uuid.UUID
	event   domain.Announcement
	exclude uuid.UUID
	calls   int
}

func (a *captureAnnouncer) Announce(_ context.Context, targets []uuid.UUID, event domain.Announcement, exclude uuid.UUID) {
	a.targets = targets
	a.event = event
	a.exclude = exclude
	a.calls++
}

func newChatServiceForTest() (*ChatService, *fakeChatRepo, *fakeMessageRepo, *captureAnnouncer) {
	chats := newFakeChatRepo()
	messages := newFakeMessageRepo()
	announcer := &captureAnnouncer{}
	presence := &fakePresence{online: make(map[uuid.UUID]bool)}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewChatService(log, chats, messages, presence, announcer, fakeTxManager{})
	return svc, chats, messages, announcer
}

func TestGetOrCreateRejectsSelfChat(t *testing.T) {
	svc, _, _, _ := newChatServiceForTest()
	userID := uuid.New()
	if _, _, err := svc.GetOrCreate(context.Background(), userID, userID); !errors.Is(err, domain.ErrChatWithSelf) {
		t.Errorf("err = %v, want ErrChatWithSelf", err)
	}
}

func TestGetOrCreateReturnsExistingChat(t *testing.T) {
	svc, _, _, _ := newChatServiceForTest()
	a, b := uuid.New(), uuid.New()

	first, created, err := svc.GetOrCreate(context.Background(), a, b)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if !created {
		t.Error("first call should create")
	}

	second, created, err := svc.GetOrCreate(context.Background(), b, a)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if created {
		t.Error("second call should reuse")
	}
	if first.ID != second.ID {
		t.Errorf("chat ids differ: %s vs %s", first.ID, second.ID)
	}
}

func TestSendMessageAnnouncesToMembersExcludingSender(t *testing.T) {
	svc, chats, _, announcer := newChatServiceForTest()
	a, b := uuid.New(), uuid.New()
	chatID := uuid.New()
	chats.chats[chatID] = []uuid.UUID{a, b}

	msg, err := svc.SendMessage(context.Background(), a, chatID, "hello")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.ChatID != chatID || msg.SenderID != a {
		t.Errorf("message = %+v", msg)
	}

	if announcer.calls != 1 {
		t.Fatalf("announce calls = %d, want 1", announcer.calls)
	}
	if announcer.exclude != a {
		t.Errorf("exclude = %s, want sender %s", announcer.exclude, a)
	}
	if announcer.event.Kind() != domain.AnnounceMessagePut {
		t.Errorf("kind = %s, want %s", announcer.event.Kind(), domain.AnnounceMessagePut)
	}
	if len(announcer.targets) != 2 {
		t.Errorf("targets = %v, want both members", announcer.targets)
	}
}

func TestSendMessageRejectsNonMember(t *testing.T) {
	svc, chats, _, announcer := newChatServiceForTest()
	a, b := uuid.New(), uuid.New()
	chatID := uuid.New()
	chats.chats[chatID] = []uuid.UUID{a, b}

	_, err := svc.SendMessage(context.Background(), uuid.New(), chatID, "hi")
	if !errors.Is(err, domain.ErrNotChatMember) {
		t.Errorf("err = %v, want ErrNotChatMember", err)
	}
	if announcer.calls != 0 {
		t.Errorf("announce calls = %d, want 0", announcer.calls)
	}
}

func TestSendMessageRejectsOversizedContent(t *testing.T) {
	svc, chats, _, _ := newChatServiceForTest()
	a, b := uuid.New(), uuid.New()
	chatID := uuid.New()
	chats.chats[chatID] = []uuid.UUID{a, b}

	long := strings.Repeat("x", domain.MaxMessageContentLen+1)
	if _, err := svc.SendMessage(context.Background(), a, chatID, long); !errors.Is(err, domain.ErrMessageTooLong) {
		t.Errorf("err = %v, want ErrMessageTooLong", err)
	}
}

func TestHistoryRequiresSomeBound(t *testing.T) {
	svc, chats, _, _ := newChatServiceForTest()
	a, b := uuid.New(), uuid.New()
	chatID := uuid.New()
	chats.chats[chatID] = []uuid.UUID{a, b}

	if _, err := svc.History(context.Background(), a, chatID, nil, nil, 0); !errors.Is(err, domain.ErrInvalidHistory) {
		t.Errorf("err = %v, want ErrInvalidHistory", err)
	}
	if _, err := svc.History(context.Background(), a, chatID, nil, nil, 10); err != nil {
		t.Errorf("count-only history: %v", err)
	}
}

func TestLeaveRemovesChatForBothSides(t *testing.T) {
	svc, chats, _, _ := newChatServiceForTest()
	a, b := uuid.New(), uuid.New()
	chatID := uuid.New()
	chats.chats[chatID] = []uuid.UUID{a, b}

	if err := svc.Leave(context.Background(), a, chatID); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if len(chats.deleted) != 1 || chats.deleted[0] != chatID {
		t.Errorf("deleted = %v, want [%s]", chats.deleted, chatID)
	}
	if _, err := svc.Members(context.Background(), b, chatID); !errors.Is(err, domain.ErrNotChatMember) {
		t.Errorf("peer still a member after leave: err = %v", err)
	}
}
