package wordpress

// Rendered wraps WordPress fields that carry raw and rendered variants.
// The raw variant is only present when requesting the edit context.
type Rendered struct {
	Raw      string `json:"raw,omitempty"`
	Rendered string `json:"rendered"`
}

// Post is a post record as returned by the WordPress REST API.
type Post struct {
	ID            int      `json:"id"`
	Date          string   `json:"date"`
	DateGMT       string   `json:"date_gmt"`
	Slug          string   `json:"slug"`
	Status        string   `json:"status"`
	Title         Rendered `json:"title"`
	Content       Rendered `json:"content"`
	Author        int      `json:"author"`
	FeaturedMedia int      `json:"featured_media"`
	Categories    []int    `json:"categories"`
	Tags          []int    `json:"tags"`
}

// User is a user record from the source blog, used only as the join key
// between a post's author id and a destination user's email.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Term is a category or tag record.
type Term struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Media is a media-library record. MediaDetails.File is the upload path
// relative to the media root, e.g. "2024/01/picture.jpg".
type Media struct {
	ID           int    `json:"id"`
	SourceURL    string `json:"source_url"`
	MediaDetails struct {
		File string `json:"file"`
	} `json:"media_details"`
}

const statusPublish = "publish"
