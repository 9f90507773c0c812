package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/sidereusnuntius/snooze/internal/domain"
)

var now = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

var story = domain.Story{
	StoryID:   "abc",
	Title:     "T",
	Author:    "A",
	URL:       "http://x.com/post",
	Username:  "alice",
	CreatedAt: now.Add(-3 * time.Hour),
}

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatal("render failed:", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal("failed to parse markup:", err)
	}
	return doc
}

func TestStoryItemContexts(t *testing.T) {
	cases := []struct {
		context   ListContext
		id        string
		starClass string
		trash     bool
	}{
		{AllStories, "abc", "star", false},
		{Favorites, "FVabc", "fvstar", false},
		{OwnStories, "userabc", "userstar", true},
	}

	for _, c := range cases {
		t.Run(c.context.Name, func(t *testing.T) {
			doc := render(t, StoryItem(story, c.context, false, now))

			li := doc.Find("li")
			if li.Length() != 1 {
				t.Fatalf("expected a single list item, got %d", li.Length())
			}
			if id, _ := li.Attr("id"); id != c.id {
				t.Errorf("expected id %q, got %q", c.id, id)
			}
			if c.context.StoryID(c.id) != story.StoryID {
				t.Errorf("StoryID(%q) did not give back the story id", c.id)
			}

			star := li.Children().First()
			if !star.HasClass(c.starClass) {
				t.Errorf("expected the first child to have class %s", c.starClass)
			}
			if n := doc.Find(".trash").Length(); (n == 1) != c.trash {
				t.Errorf("unexpected number of trash icons: %d", n)
			}
		})
	}
}

func TestStoryItemContent(t *testing.T) {
	doc := render(t, StoryItem(story, AllStories, false, now))

	link := doc.Find("a.story-link")
	if href, _ := link.Attr("href"); href != story.URL {
		t.Errorf("expected link to %s, got %s", story.URL, href)
	}
	if target, _ := link.Attr("target"); target != "a_blank" {
		t.Errorf("unexpected link target %q", target)
	}

	expected := map[string]string{
		"a.story-link":         "T",
		"small.story-hostname": "(x.com)",
		"small.story-author":   "by A",
		"small.story-user":     "posted by alice",
		"small.story-time":     "3 hours ago",
	}
	for selector, text := range expected {
		if got := strings.TrimSpace(doc.Find(selector).Text()); got != text {
			t.Errorf("%s: expected %q, got %q", selector, text, got)
		}
	}
}

func TestStar(t *testing.T) {
	cases := []struct {
		name     string
		favorite bool
		filled   int
		outline  int
	}{
		{"favorite", true, 1, 0},
		{"not a favorite", false, 0, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc := render(t, StoryItem(story, OwnStories, c.favorite, now))
			if n := doc.Find(".userstar i.fas.fa-star").Length(); n != c.filled {
				t.Errorf("expected %d filled stars, got %d", c.filled, n)
			}
			if n := doc.Find(".userstar i.far.fa-star").Length(); n != c.outline {
				t.Errorf("expected %d outline stars, got %d", c.outline, n)
			}
		})
	}

	doc := render(t, Star("abc", Favorites, true))
	if target, _ := doc.Find(".fvstar").Attr("hx-target"); target != "#favorited-stories" {
		t.Errorf("a favorites star should re-render the favorites list, got target %q", target)
	}
	if post, _ := doc.Find(".fvstar").Attr("hx-post"); post != "/stories/abc/favorite?ctx=favorites" {
		t.Errorf("unexpected hx-post %q", post)
	}
}

func TestStoryListDeterministic(t *testing.T) {
	stories := []domain.Story{story, {StoryID: "def", Title: "U", URL: "https://y.org"}}
	favorites := map[string]struct{}{"def": {}}

	var first, second strings.Builder
	StoryList(stories, AllStories, favorites, now).Render(context.Background(), &first)
	StoryList(stories, AllStories, favorites, now).Render(context.Background(), &second)
	if first.String() != second.String() {
		t.Error("rendering the same list twice produced different markup")
	}

	doc := render(t, StoryList(stories, AllStories, favorites, now))
	ids := doc.Find("#all-stories-list > li").Map(func(_ int, s *goquery.Selection) string {
		id, _ := s.Attr("id")
		return id
	})
	if strings.Join(ids, ",") != "abc,def" {
		t.Errorf("expected items abc,def in order, got %v", ids)
	}
	if doc.Find("#abc i.fas").Length() != 0 || doc.Find("#def i.fas").Length() != 1 {
		t.Error("stars do not reflect the favorites")
	}
}

func TestEmptyList(t *testing.T) {
	doc := render(t, StoryList(nil, Favorites, nil, now))
	if got := doc.Find("#favorited-stories .empty-list").Text(); got != Favorites.Empty {
		t.Errorf("expected %q, got %q", Favorites.Empty, got)
	}
}

func TestEscaping(t *testing.T) {
	evil := domain.Story{
		StoryID:  "x",
		Title:    `<script>alert("t")</script>`,
		Author:   `"><img src=x>`,
		URL:      "javascript:alert(1)",
		Username: "mallory",
	}
	doc := render(t, StoryItem(evil, AllStories, false, now))

	if doc.Find("script, img").Length() != 0 {
		t.Error("markup injected through story fields")
	}
	if href, _ := doc.Find("a.story-link").Attr("href"); strings.HasPrefix(href, "javascript:") {
		t.Errorf("unsafe url rendered: %s", href)
	}
	if got := doc.Find("a.story-link").Text(); got != evil.Title {
		t.Errorf("expected the title as text, got %q", got)
	}
}

func TestNav(t *testing.T) {
	authOnly := []string{".main-nav-links", "#nav-submit", "#nav-favorites", "#nav-stories", "#nav-logout", "#nav-user-profile"}

	doc := render(t, Layout(PageData{SiteName: "Hack or Snooze", Authenticated: true, Username: "alice"}))
	for _, sel := range authOnly {
		if doc.Find(sel).Length() != 1 {
			t.Errorf("expected %s for an authenticated user", sel)
		}
	}
	if doc.Find("#nav-login").Length() != 0 {
		t.Error("login link shown to an authenticated user")
	}
	if got := doc.Find("#nav-user-profile").Text(); got != "alice" {
		t.Errorf("expected the username in the navbar, got %q", got)
	}

	doc = render(t, Layout(PageData{SiteName: "Hack or Snooze"}))
	for _, sel := range authOnly {
		if doc.Find(sel).Length() != 0 {
			t.Errorf("%s shown to an anonymous user", sel)
		}
	}
	if doc.Find("#nav-login").Length() != 1 || doc.Find("#nav-all").Length() != 1 {
		t.Error("expected the login and site links for an anonymous user")
	}
}

func TestLayoutAlert(t *testing.T) {
	doc := render(t, Layout(PageData{SiteName: "S", PageTitle: "Login", Alert: "wrong password"}))
	if got := doc.Find("#alerts .alert").Text(); got != "wrong password" {
		t.Errorf("expected the alert, got %q", got)
	}
	if got := doc.Find("title").Text(); got != "Login | S" {
		t.Errorf("unexpected title %q", got)
	}
}

func TestForms(t *testing.T) {
	doc := render(t, SubmitForm("T", "A", "http://x.com"))
	for id, value := range map[string]string{"create-title": "T", "create-author": "A", "create-url": "http://x.com"} {
		if v, _ := doc.Find("#" + id).Attr("value"); v != value {
			t.Errorf("#%s: expected value %q, got %q", id, value, v)
		}
	}

	doc = render(t, AuthForms("alice"))
	if doc.Find("#login-form").Length() != 1 || doc.Find("#signup-form").Length() != 1 {
		t.Error("expected both the login and signup forms")
	}
	if v, _ := doc.Find("#login-username").Attr("value"); v != "alice" {
		t.Errorf("expected the login form to be pre-filled, got %q", v)
	}
}

func TestContextByName(t *testing.T) {
	for name, expected := range map[string]ListContext{
		"all":       AllStories,
		"favorites": Favorites,
		"own":       OwnStories,
		"":          AllStories,
		"bogus":     AllStories,
	} {
		if got := ContextByName(name); got != expected {
			t.Errorf("ContextByName(%q): expected %s, got %s", name, expected.Name, got.Name)
		}
	}
}

func TestNavCurrentPlace(t *testing.T) {
	doc := render(t, Nav(PageData{SiteName: "S", Authenticated: true, Username: "alice", Place: PlaceFavorites}))
	current := doc.Find("[aria-current]")
	if current.Length() != 1 {
		t.Fatalf("expected a single current link, got %d", current.Length())
	}
	if id, _ := current.Attr("id"); id != "nav-favorites" {
		t.Errorf("expected the favorites link to be current, got %q", id)
	}
	if v, _ := current.Attr("aria-current"); v != "page" {
		t.Errorf("unexpected aria-current %q", v)
	}
	if got := doc.Find(".main-nav-links").Text(); got != "submit | favorites | my stories" {
		t.Errorf("unexpected navigation links %q", got)
	}
}

func TestSections(t *testing.T) {
	doc := render(t, Sections(Alert("first"), nil, OOBAlert("second")))
	alerts := doc.Find(".alert").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
	if strings.Join(alerts, ",") != "first,second" {
		t.Errorf("expected both alerts in order, got %v", alerts)
	}
	if oob, _ := doc.Find("#alerts").Attr("hx-swap-oob"); oob != "true" {
		t.Errorf("expected an out of band swap, got %q", oob)
	}
}

func TestTitleWithMarkup(t *testing.T) {
	s := story
	s.Title = "Why the <canvas> element is slow"
	doc := render(t, StoryItem(s, AllStories, false, now))
	if got := doc.Find("a.story-link").Text(); got != s.Title {
		t.Errorf("expected the title as typed, got %q", got)
	}
	if doc.Find("canvas").Length() != 0 {
		t.Error("the title was rendered as markup")
	}
}
