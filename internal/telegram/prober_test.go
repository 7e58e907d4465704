package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/osint-finder/internal/domain"
)

const (
	goodToken     = "111:good"
	webhookToken  = "222:webhook"
	revokedToken  = "333:revoked"
	getMeResponse = `{"ok":true,"result":{"id":111,"is_bot":true,"first_name":"Finder","username":"finder_probe_bot","can_join_groups":true}}`
)

// fakeTelegram - минимальный Bot API: /bot<token>/<method>
type fakeTelegram struct {
	mu       sync.Mutex
	calls    []string
	sent     []string
	updates  string
	chatSent int64
	offsets  []string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/bot")
	i := strings.LastIndexByte(path, '/')
	token, method := path[:i], path[i+1:]

	r.ParseForm()

	f.mu.Lock()
	f.calls = append(f.calls, token+" "+method)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if token == revokedToken {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
		return
	}

	switch method {
	case "getMe":
		fmt.Fprint(w, getMeResponse)
	case "getUpdates":
		if token == webhookToken {
			w.WriteHeader(http.StatusConflict)
			fmt.Fprint(w, `{"ok":false,"error_code":409,"description":"Conflict: can't use getUpdates method while webhook is active"}`)
			return
		}
		f.mu.Lock()
		f.offsets = append(f.offsets, r.Form.Get("offset"))
		f.mu.Unlock()
		fmt.Fprint(w, f.updates)
	case "sendMessage":
		f.mu.Lock()
		f.sent = append(f.sent, r.PostForm.Get("text"))
		fmt.Sscanf(r.PostForm.Get("chat_id"), "%d", &f.chatSent)
		f.mu.Unlock()
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":9,"date":1700000000,"chat":{"id":42,"type":"private"},"text":"ok"}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
	}
}

func updatesJSON(n int) string {
	var items []string
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf(
			`{"update_id":%d,"message":{"message_id":%d,"from":{"id":7,"is_bot":false,"first_name":"Alice","username":"alice"},"date":%d,"chat":{"id":7,"type":"private"},"text":"msg %d"}}`,
			i, i, 1700000000+i, i,
		))
	}
	// апдейт без message (например, callback) должен отфильтроваться
	items = append(items, fmt.Sprintf(`{"update_id":%d,"edited_message":{"message_id":1,"date":1,"chat":{"id":7,"type":"private"},"text":"edit"}}`, n+1))
	return `{"ok":true,"result":[` + strings.Join(items, ",") + `]}`
}

type staticCreds []domain.BotCredential

func (s staticCreds) BotCredentials(ctx context.Context) ([]domain.BotCredential, error) {
	return s, nil
}

type errCreds struct{ err error }

func (e errCreds) BotCredentials(ctx context.Context) ([]domain.BotCredential, error) {
	return nil, e.err
}

func newTestProber(t *testing.T, fake *fakeTelegram, cfg ProberConfig, creds CredentialSource) *Prober {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	cfg.APIEndpoint = server.URL + "/bot%s/%s"
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Second
	}
	return NewProber(cfg, creds, zap.NewNop(), nil)
}

func TestProber_Probe_Found(t *testing.T) {
	fake := &fakeTelegram{updates: updatesJSON(2)}
	p := newTestProber(t, fake, ProberConfig{}, nil)

	res := p.Probe(domain.BotCredential{Name: "main", Token: goodToken}, domain.NewUsernameQuery("@alice"))

	if !res.Found {
		t.Fatalf("Found = false, error = %q", res.Error)
	}
	if res.Error != "" {
		t.Errorf("Error = %q, want empty", res.Error)
	}
	if res.Source != "main" || res.Query != "@alice" {
		t.Errorf("Source/Query = %q/%q", res.Source, res.Query)
	}
	if !strings.Contains(res.Description, "@finder_probe_bot") {
		t.Errorf("Description = %q, want bot username", res.Description)
	}

	info, ok := res.Data["bot_info"].(domain.BotInfo)
	if !ok {
		t.Fatalf("bot_info = %T", res.Data["bot_info"])
	}
	if info.Username != "finder_probe_bot" || info.ID != 111 || !info.CanJoinGroups {
		t.Errorf("bot_info = %+v", info)
	}
	if res.Data["recent_activity"] != 2 {
		t.Errorf("recent_activity = %v, want 2", res.Data["recent_activity"])
	}
	if res.Data["type"] != "username" || res.Data["search_term"] != "@alice" {
		t.Errorf("type/search_term = %v/%v", res.Data["type"], res.Data["search_term"])
	}
	if _, ok := res.Data["recent_messages"]; ok {
		t.Error("recent_messages should be omitted by default")
	}
}

func TestProber_Probe_RecentMessagesLimit(t *testing.T) {
	fake := &fakeTelegram{updates: updatesJSON(8)}
	p := newTestProber(t, fake, ProberConfig{IncludeMessages: true, RecentLimit: 5}, nil)

	res := p.Probe(domain.BotCredential{Name: "main", Token: goodToken}, domain.NewPhoneQuery("+7 999"))

	msgs, ok := res.Data["recent_messages"].([]domain.RecentMessage)
	if !ok {
		t.Fatalf("recent_messages = %T", res.Data["recent_messages"])
	}
	// из последних 5 апдейтов один без message
	if len(msgs) != 4 {
		t.Fatalf("len(recent_messages) = %d, want 4", len(msgs))
	}
	if msgs[0].Text != "msg 5" || msgs[3].Text != "msg 8" {
		t.Errorf("messages = %+v, want msg 5..8", msgs)
	}
	if msgs[0].FromUser != "@alice" || msgs[0].Date != 1700000005 {
		t.Errorf("first message = %+v", msgs[0])
	}
	if res.Data["recent_activity"] != 4 {
		t.Errorf("recent_activity = %v, want 4", res.Data["recent_activity"])
	}
}

func TestProber_Probe_DoesNotConfirmUpdates(t *testing.T) {
	fake := &fakeTelegram{updates: updatesJSON(3)}
	p := newTestProber(t, fake, ProberConfig{RecentLimit: 2}, nil)

	p.Probe(domain.BotCredential{Name: "main", Token: goodToken}, domain.NewUsernameQuery("bob"))
	p.Probe(domain.BotCredential{Name: "main", Token: goodToken}, domain.NewUsernameQuery("bob"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.offsets) != 2 {
		t.Fatalf("getUpdates calls = %d, want 2", len(fake.offsets))
	}
	for i, offset := range fake.offsets {
		if offset == "" {
			continue
		}
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			t.Errorf("call %d: offset = %q, must be absent or non-negative", i, offset)
		}
	}
}

func TestProber_Probe_GetUpdatesFailureIsSwallowed(t *testing.T) {
	fake := &fakeTelegram{}
	p := newTestProber(t, fake, ProberConfig{}, nil)

	res := p.Probe(domain.BotCredential{Name: "hook", Token: webhookToken}, domain.NewUsernameQuery("bob"))

	if !res.Found {
		t.Fatalf("Found = false, error = %q", res.Error)
	}
	if res.Data["recent_activity"] != 0 {
		t.Errorf("recent_activity = %v, want 0", res.Data["recent_activity"])
	}
}

func TestProber_Probe_InvalidToken(t *testing.T) {
	fake := &fakeTelegram{}
	p := newTestProber(t, fake, ProberConfig{}, nil)

	res := p.Probe(domain.BotCredential{Name: "old", Token: revokedToken}, domain.NewUsernameQuery("bob"))

	if res.Found {
		t.Error("Found = true for revoked token")
	}
	if !strings.Contains(res.Error, "Unauthorized") {
		t.Errorf("Error = %q, want telegram description", res.Error)
	}
	if len(res.Data) != 0 {
		t.Errorf("Data = %v, want empty", res.Data)
	}
}

func TestProber_Probe_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL + "/bot%s/%s"
	server.Close()

	p := NewProber(ProberConfig{APIEndpoint: endpoint, Timeout: time.Second}, nil, zap.NewNop(), nil)
	res := p.Probe(domain.BotCredential{Name: "main", Token: goodToken}, domain.NewUsernameQuery("bob"))

	if res.Found {
		t.Error("Found = true for unreachable API")
	}
	if res.Error == "" {
		t.Fatal("Error is empty")
	}
	if strings.Contains(res.Error, goodToken) {
		t.Errorf("Error leaks token: %q", res.Error)
	}
}

func TestProber_Probe_Notify(t *testing.T) {
	fake := &fakeTelegram{updates: updatesJSON(0)}
	p := newTestProber(t, fake, ProberConfig{NotifyChatID: 42}, nil)

	res := p.Probe(domain.BotCredential{Name: "main", Token: goodToken}, domain.NewPhoneQuery("+7 999"))
	if !res.Found {
		t.Fatalf("Found = false, error = %q", res.Error)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.sent) != 1 || !strings.Contains(fake.sent[0], "+7 999") {
		t.Errorf("sent = %v, want one message with the query", fake.sent)
	}
	if fake.chatSent != 42 {
		t.Errorf("chat_id = %d, want 42", fake.chatSent)
	}
}

func TestProber_ProbeAll_Order(t *testing.T) {
	fake := &fakeTelegram{updates: updatesJSON(1)}
	creds := staticCreds{
		{Name: "first", Token: goodToken},
		{Name: "second", Token: revokedToken},
		{Name: "third", Token: webhookToken},
	}
	p := newTestProber(t, fake, ProberConfig{}, creds)

	results, err := p.ProbeAll(context.Background(), domain.NewUsernameQuery("bob"))
	if err != nil {
		t.Fatalf("ProbeAll() error = %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	wantFound := []bool{true, false, true}
	for i, r := range results {
		if r.Source != creds[i].Name {
			t.Errorf("results[%d].Source = %q, want %q", i, r.Source, creds[i].Name)
		}
		if r.Found != wantFound[i] {
			t.Errorf("results[%d].Found = %v, want %v", i, r.Found, wantFound[i])
		}
	}
}

func TestProber_ProbeAll_NoCredentials(t *testing.T) {
	p := NewProber(ProberConfig{}, staticCreds{}, zap.NewNop(), nil)

	_, err := p.ProbeAll(context.Background(), domain.NewUsernameQuery("bob"))
	if !errors.Is(err, domain.ErrNoBotTokens) {
		t.Errorf("ProbeAll() error = %v, want ErrNoBotTokens", err)
	}
}

func TestProber_ProbeAll_CredentialError(t *testing.T) {
	wantErr := errors.New("secrets down")
	p := NewProber(ProberConfig{}, errCreds{err: wantErr}, zap.NewNop(), nil)

	_, err := p.ProbeAll(context.Background(), domain.NewUsernameQuery("bob"))
	if !errors.Is(err, wantErr) {
		t.Errorf("ProbeAll() error = %v, want %v", err, wantErr)
	}
}
