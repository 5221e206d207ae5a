// Package scraper fetches Bhagavad Gita verses from the public
// vedicscriptures API and turns them into verse records.
//
// Requests are paced with a token bucket so a full 18-chapter fetch stays
// polite. A chapter ends at the first verse the API does not serve.
package scraper
