package templates

// ListContext describes where a story list is shown. The three contexts differ in the prefix of each item's
// id, the class of the star and whether a trash icon is shown.
type ListContext struct {
	Name      string
	ListID    string
	Prefix    string
	StarClass string
	Trash     bool
	Empty     string
}

var (
	AllStories = ListContext{
		Name:      "all",
		ListID:    "all-stories-list",
		Prefix:    "",
		StarClass: "star",
		Empty:     "No stories added by users yet!",
	}
	Favorites = ListContext{
		Name:      "favorites",
		ListID:    "favorited-stories",
		Prefix:    "FV",
		StarClass: "fvstar",
		Empty:     "No favorites added!",
	}
	OwnStories = ListContext{
		Name:      "own",
		ListID:    "my-stories",
		Prefix:    "user",
		StarClass: "userstar",
		Trash:     true,
		Empty:     "No stories added by user yet!",
	}
)

// ContextByName returns the list context with the given name, defaulting to AllStories.
func ContextByName(name string) ListContext {
	switch name {
	case Favorites.Name:
		return Favorites
	case OwnStories.Name:
		return OwnStories
	default:
		return AllStories
	}
}

func (c ListContext) ItemID(storyID string) string {
	return c.Prefix + storyID
}

// StoryID is the inverse of ItemID.
func (c ListContext) StoryID(itemID string) string {
	if len(itemID) < len(c.Prefix) {
		return ""
	}
	return itemID[len(c.Prefix):]
}

// starTarget is the element replaced after a click on a star of a list shown in c.
func (c ListContext) starTarget() string {
	if c == Favorites {
		return "#" + Favorites.ListID
	}
	return "this"
}

func storyPath(storyID string) string {
	return "/stories/" + storyID
}

func favoritePath(storyID string, c ListContext) string {
	return storyPath(storyID) + "/favorite?ctx=" + c.Name
}

func deletePath(storyID string) string {
	return storyPath(storyID) + "/delete"
}

func isFavorite(favorites map[string]struct{}, storyID string) bool {
	_, ok := favorites[storyID]
	return ok
}
