package blobs

type createRequest struct {
	Category    string   `json:"category" binding:"required"`
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"max=8000"`
	Tags        []string `json:"tags" binding:"max=50"`
}

func (r createRequest) input() Input {
	return Input{Category: r.Category, Title: r.Title, Description: r.Description, Tags: r.Tags}
}

type patchRequest struct {
	Category    *string   `json:"category"`
	Title       *string   `json:"title" binding:"omitempty,max=200"`
	Description *string   `json:"description" binding:"omitempty,max=8000"`
	Tags        *[]string `json:"tags"`
}

func (r patchRequest) patch() Patch {
	return Patch{Category: r.Category, Title: r.Title, Description: r.Description, Tags: r.Tags}
}

type listQuery struct {
	Category string `form:"category"`
	Query    string `form:"q"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}
