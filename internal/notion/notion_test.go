package notion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jomei/notionapi"
)

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient(); err == nil {
		t.Fatal("expected error without token")
	}
	if _, err := NewClient(WithToken("secret"), WithDirectoryDB("db1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWithRetryStopsOnSuccess(t *testing.T) {
	c := &Client{retryAttempts: 3, retryDelay: time.Millisecond}

	calls := 0
	err := c.withRetry(context.Background(), "test", func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	c := &Client{retryAttempts: 3, retryDelay: time.Millisecond}

	calls := 0
	sentinel := errors.New("down")
	err := c.withRetry(context.Background(), "test", func() error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected the last error wrapped, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetryHonorsContext(t *testing.T) {
	c := &Client{retryAttempts: 3, retryDelay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := c.withRetry(ctx, "test", func() error {
		calls++
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 before the delay", calls)
	}
}

func TestDirectoryRecordMapping(t *testing.T) {
	page := &notionapi.Page{
		ID: "pg1",
		Properties: notionapi.Properties{
			propName: &notionapi.TitleProperty{Title: []notionapi.RichText{
				{PlainText: "Олена"},
			}},
			propDiscordID: &notionapi.RichTextProperty{RichText: []notionapi.RichText{
				{PlainText: "u1"},
			}},
			propChannelID: &notionapi.RichTextProperty{RichText: []notionapi.RichText{
				{PlainText: "ch1"},
			}},
			propTodoURL: &notionapi.URLProperty{URL: "https://notion.so/todo"},
			propPublic:  &notionapi.CheckboxProperty{Checkbox: false},
		},
	}

	rec := directoryRecord(page)
	if rec.PageID != "pg1" || rec.Name != "Олена" || rec.DiscordID != "u1" || rec.ChannelID != "ch1" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.TodoURL != "https://notion.so/todo" || rec.IsPublic {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestDirectoryRecordMissingProperties(t *testing.T) {
	rec := directoryRecord(&notionapi.Page{ID: "pg1", Properties: notionapi.Properties{}})
	if rec.Name != "" || rec.DiscordID != "" || rec.ChannelID != "" || rec.TodoURL != "" || rec.IsPublic {
		t.Errorf("missing properties must map to zero values: %+v", rec)
	}
}

func TestPlainTextJoinsRuns(t *testing.T) {
	got := plainText([]notionapi.RichText{{PlainText: "час"}, {PlainText: "тика"}})
	if got != "частика" {
		t.Errorf("plainText = %q", got)
	}
	if plainText(nil) != "" {
		t.Error("expected empty string for no runs")
	}
}

func TestRichTextWrite(t *testing.T) {
	prop := richText("u1")
	if len(prop.RichText) != 1 {
		t.Fatalf("expected a single run, got %d", len(prop.RichText))
	}
	run := prop.RichText[0]
	if run.Type != notionapi.ObjectTypeText || run.Text == nil || run.Text.Content != "u1" {
		t.Errorf("unexpected run: %+v", run)
	}

	cleared := richText("")
	if len(cleared.RichText) != 0 {
		t.Error("empty content must produce an empty run list, clearing the property")
	}
}

func TestNumberAndCheckboxValues(t *testing.T) {
	if got := numberValue(&notionapi.NumberProperty{Number: 40}); got != 40 {
		t.Errorf("numberValue = %d", got)
	}
	if got := numberValue(nil); got != 0 {
		t.Errorf("numberValue(nil) = %d", got)
	}
	if !checkboxValue(&notionapi.CheckboxProperty{Checkbox: true}) {
		t.Error("checkboxValue = false, want true")
	}
	if urlValue(&notionapi.TitleProperty{}) != "" {
		t.Error("mismatched property type must map to zero value")
	}
}
