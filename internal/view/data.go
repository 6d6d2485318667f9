package view

import (
	"github.com/yanizio/reing/internal/head"
	"github.com/yanizio/reing/internal/qa"
)

// Data is the single view model every page template receives.  Unused
// fields stay zero.
type Data struct {
	Status int
	Query  string
	Admin  bool
	Flash  string
	Error  string
	CSRF   string
	Draft  string
	Head   *head.Builder

	Questions []qa.Question
	Page      *qa.Page

	Question *qa.Question
	Next     *qa.Question
	Prev     *qa.Question
}
