package collection

import (
	"context"
	"fmt"

	"Postdeck/internal/core/posts"
)

var seedTopics = []struct {
	title string
	body  string
	tags  []string
}{
	{"His mother had always taught him", "His mother had always taught him not to ever think of himself as better than others.", []string{"history", "american", "crime"}},
	{"He was an expert but not in a discipline", "He was an expert but not in a discipline that anyone could fully appreciate.", []string{"french", "fiction", "english"}},
	{"Dave watched as the forest burned up on the hill", "Dave watched as the forest burned up on the hill, only a few miles from his house.", []string{"magical", "history", "french"}},
	{"All he wanted was a candy bar", "All he wanted was a candy bar. It didn't seem like a difficult request to comprehend.", []string{"mystery", "english", "american"}},
	{"Hopes and dreams were dashed that day", "Hopes and dreams were dashed that day. It should have been expected, but it still came as a shock.", []string{"crime", "mystery", "love"}},
	{"Dave wasn't exactly sure how he had ended up", "Dave wasn't exactly sure how he had ended up in this predicament.", []string{"english", "classic", "american"}},
	{"This is important to remember", "This is important to remember. Love isn't like pie. You don't need to divide it among all your friends and loved ones.", []string{"magical", "crime"}},
	{"One can cook on and with an open fire", "One can cook on and with an open fire. These are some of the ways to cook with fire outside.", []string{"american", "english"}},
	{"There are different types of secrets", "There are different types of secrets. She had held onto plenty of them during her life.", []string{"american", "history", "magical"}},
	{"They rushed out the door", "They rushed out the door, grabbing anything and everything they could think of they might need.", []string{"french", "fiction", "love"}},
}

// Seed fills store with n demo posts, cycling through a fixed set of texts
func Seed(ctx context.Context, store Store, n int) error {
	for i := 0; i < n; i++ {
		topic := seedTopics[i%len(seedTopics)]
		title := topic.title
		if i >= len(seedTopics) {
			title = fmt.Sprintf("%s (%d)", topic.title, i/len(seedTopics)+1)
		}
		_, err := store.Create(ctx, posts.CreatePostInput{
			Title:  title,
			Body:   topic.body,
			Tags:   topic.tags,
			UserID: i%5 + 1,
		})
		if err != nil {
			return fmt.Errorf("seed post %d: %w", i+1, err)
		}
	}
	return nil
}
