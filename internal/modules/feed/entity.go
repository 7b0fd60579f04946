package feed

const EventStoryPublished = "story_published"

// FeedEvent - событие, которое сервер пушит подключенным клиентам ленты.
type FeedEvent struct {
	Type     string  `json:"type"`
	StoryId  uint    `json:"story_id"`
	Title    string  `json:"title"`
	Category *string `json:"category,omitempty"`
}
