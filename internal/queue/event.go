// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// DocumentPublishedEvent is published when a document's isPublished flag is
// switched on. It carries enough information for downstream consumers to
// log or notify without querying the content store.
type DocumentPublishedEvent struct {
	DocumentID  string `json:"document_id"`
	Title       string `json:"title"`
	AuthorID    string `json:"author_id"`
	PublishedAt string `json:"published_at"`
}

// PublishQueueName is the durable queue carrying DocumentPublishedEvent.
const PublishQueueName = "document.published"
