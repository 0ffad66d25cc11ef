package router

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/todobot/core/telegram"
	"github.com/m3rciful/todobot/core/telegram/commands"
)

// fakeContext implements just enough of tele.Context for the text router
// and its logging middleware. Unimplemented methods panic if reached.
type fakeContext struct {
	tele.Context
	text   string
	sender *tele.User
	update tele.Update
	data   map[string]any
}

func newFakeContext(text string, userID int64) *fakeContext {
	return &fakeContext{
		text:   text,
		sender: &tele.User{ID: userID},
		update: tele.Update{ID: 1, Message: &tele.Message{Text: text}},
		data:   map[string]any{},
	}
}

func (f *fakeContext) Text() string          { return f.text }
func (f *fakeContext) Sender() *tele.User    { return f.sender }
func (f *fakeContext) Chat() *tele.Chat      { return &tele.Chat{ID: f.sender.ID} }
func (f *fakeContext) Update() tele.Update   { return f.update }
func (f *fakeContext) Get(key string) any    { return f.data[key] }
func (f *fakeContext) Set(key string, v any) { f.data[key] = v }

type fakeDialogue struct {
	inProgress bool
	cancelled  bool
	turns      []string
	calls      []string
}

func (d *fakeDialogue) Acquire(int64) func() {
	d.calls = append(d.calls, "acquire")
	return func() { d.calls = append(d.calls, "release") }
}
func (d *fakeDialogue) InProgress(int64) bool {
	d.calls = append(d.calls, "in_progress")
	return d.inProgress
}
func (d *fakeDialogue) CancelPhrase() string { return "🔙 Back" }
func (d *fakeDialogue) HandleCancel(tele.Context) error {
	d.cancelled = true
	return nil
}
func (d *fakeDialogue) HandleTurn(c tele.Context) error {
	d.calls = append(d.calls, "turn")
	d.turns = append(d.turns, c.Text())
	return nil
}

func textHandler(routes []tg.Route, t *testing.T) tele.HandlerFunc {
	t.Helper()
	if len(routes) != 1 || routes[0].Endpoint != tele.OnText {
		t.Fatalf("expected a single OnText route, got %v", routes)
	}
	return routes[0].Handler
}

func TestTextRoutesPrecedence(t *testing.T) {
	var fired []string
	mark := func(name string) tele.HandlerFunc {
		return func(tele.Context) error {
			fired = append(fired, name)
			return nil
		}
	}

	reg := tg.NewRegistry()
	reg.RegisterCommand("/help", commands.Command{Handler: mark("command"), Description: "help"})
	reg.RegisterTrigger("📋 My tasks", commands.Trigger{Handler: mark("trigger")})

	dlg := &fakeDialogue{}
	handler := textHandler(TextRoutes(dlg, reg, TextOptions{UnknownText: mark("unknown")}), t)

	// Cancel beats an active dialogue.
	dlg.inProgress = true
	if err := handler(newFakeContext("🔙 Back", 7)); err != nil {
		t.Fatal(err)
	}
	if !dlg.cancelled || len(dlg.turns) != 0 {
		t.Fatalf("cancel phrase should abort, not feed the dialogue: %+v", dlg)
	}

	// An active dialogue consumes trigger phrases as plain input.
	if err := handler(newFakeContext("📋 My tasks", 7)); err != nil {
		t.Fatal(err)
	}
	if len(dlg.turns) != 1 || dlg.turns[0] != "📋 My tasks" {
		t.Fatalf("active dialogue should receive the text, got %v", dlg.turns)
	}
	if len(fired) != 0 {
		t.Fatalf("trigger must not fire during a dialogue: %v", fired)
	}

	// With no dialogue the trigger wins.
	dlg.inProgress = false
	if err := handler(newFakeContext("📋 My tasks", 7)); err != nil {
		t.Fatal(err)
	}
	if err := handler(newFakeContext("/help", 7)); err != nil {
		t.Fatal(err)
	}
	if err := handler(newFakeContext("whatever", 7)); err != nil {
		t.Fatal(err)
	}
	want := []string{"trigger", "command", "unknown"}
	if len(fired) != len(want) {
		t.Fatalf("fired %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Fatalf("fired %v, want %v", fired, want)
		}
	}
}

// The routing decision must be atomic with the turn it picks: the user's
// lock is taken before InProgress is consulted and released only after the
// dispatched handler returns.
func TestTextRoutesHoldsUserLockAcrossDispatch(t *testing.T) {
	dlg := &fakeDialogue{inProgress: true}
	handler := textHandler(TextRoutes(dlg, tg.NewRegistry(), TextOptions{}), t)

	if err := handler(newFakeContext("Buy milk", 7)); err != nil {
		t.Fatal(err)
	}

	want := []string{"acquire", "in_progress", "turn", "release"}
	if len(dlg.calls) != len(want) {
		t.Fatalf("calls %v, want %v", dlg.calls, want)
	}
	for i := range want {
		if dlg.calls[i] != want[i] {
			t.Fatalf("calls %v, want %v", dlg.calls, want)
		}
	}
}

func TestTextRoutesFallbackBeforeUnknown(t *testing.T) {
	var got string
	reg := tg.NewRegistry()
	reg.SetTextFallback(func(tele.Context) error {
		got = "fallback"
		return nil
	})

	handler := textHandler(TextRoutes(nil, reg, TextOptions{UnknownText: func(tele.Context) error {
		got = "unknown"
		return nil
	}}), t)

	if err := handler(newFakeContext("no match", 9)); err != nil {
		t.Fatal(err)
	}
	if got != "fallback" {
		t.Fatalf("registry fallback should win over unknown-text, got %q", got)
	}
}
