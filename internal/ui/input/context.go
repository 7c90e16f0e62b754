package input

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Selected       int
	Items          int
	Page           int
	Pages          int
	NotificationUp bool
}

func (c *ModelContext) CurrentIndex() int { return c.Selected }

func (c *ModelContext) ItemCount() int { return c.Items }

func (c *ModelContext) PageIndex() int { return c.Page }

func (c *ModelContext) TotalPages() int { return c.Pages }

func (c *ModelContext) HasNotification() bool { return c.NotificationUp }
