package categories

import "github.com/stockdesk/stockdesk/internal/console"

var messages = map[string]string{
	"name": "The category name is required.",
}

var fields = console.Fields[Category]{
	"name": console.Text(func(c *Category, v string) { c.Name = v }),
}
