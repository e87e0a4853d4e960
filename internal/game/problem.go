package game

// Problem is a trivia question with an order-of-magnitude answer. Problems
// are supplied by an external provider and treated as opaque data; two
// problems are the same problem iff they are structurally equal.
type Problem struct {
	Question  string
	LogAnswer int
	Source    string
}
