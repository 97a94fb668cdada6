package admin

// PostForm is the new/edit post form.
type PostForm struct {
	Title      string `form:"title"       binding:"required,max=60"`
	Category   string `form:"category"    binding:"required"`
	Body       string `form:"body"        binding:"required"`
	CanComment bool   `form:"can_comment"`
}

// CategoryForm is the new/edit category form.
type CategoryForm struct {
	Name string `form:"name" binding:"required,max=30"`
}

// LinkForm is the new/edit link form.
type LinkForm struct {
	Name string `form:"name" binding:"required,max=30"`
	URL  string `form:"url"  binding:"required,max=255"`
}

// SettingsForm edits the blog metadata.
type SettingsForm struct {
	Name         string `form:"name"           binding:"required,max=30"`
	BlogTitle    string `form:"blog_title"     binding:"required,max=60"`
	BlogSubTitle string `form:"blog_sub_title" binding:"max=100"`
	About        string `form:"about"`
}
