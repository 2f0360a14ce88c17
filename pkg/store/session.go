package store

import "time"

// Product is one catalog entry returned by a similarity search
type Product struct {
	Title         string  `json:"title"`
	Brand         string  `json:"brand"`
	Price         string  `json:"price"`
	Description   string  `json:"description"`
	ImageFilename string  `json:"image_filename"`
	Score         float64 `json:"score"`
}

// Turn roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of a session transcript. Turns are never edited after they are appended.
type Turn struct {
	Role     string    `json:"role"`
	Content  string    `json:"content"`
	Thought  string    `json:"thought,omitempty"`
	Products []Product `json:"products,omitempty"`
	At       time.Time `json:"at"`
}

// UserTurn creates a user turn stamped with the current time
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content, At: time.Now()}
}

// AssistantTurn creates an assistant turn stamped with the current time
func AssistantTurn(content, thought string, products []Product) Turn {
	return Turn{Role: RoleAssistant, Content: content, Thought: thought, Products: products, At: time.Now()}
}

const (
	// GreetingMessage opens every display transcript. It is never sent to the model.
	GreetingMessage = "Hi! I'm SoleMate. Looking for specific shoes? Ask away!"

	// ImageUploadedContent is the display content of an image-only user turn
	ImageUploadedContent = "[Image Uploaded]"
)
