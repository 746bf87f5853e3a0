package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

const (
	msgLoginToComment = "You need to login or register to comment."
	msgTitleTaken     = "A post with that title already exists."
)

const unknownAuthor = "Unknown"

type postView struct {
	*model.Post
	AuthorName string
}

type commentView struct {
	*model.Comment
	AuthorName string
	AvatarURL  string
}

// Index 文章列表，新发布的在前
func (h *Handler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	posts, err := h.postService.List(ctx)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	views, err := h.postViews(ctx, posts...)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{"Posts": views})
}

// ShowPost 文章详情与评论
func (h *Handler) ShowPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		h.postError(c, err)
		return
	}
	h.renderPost(c, http.StatusOK, post, commentForm{}, nil)
}

// AddComment 匿名用户跳转登录，不写入评论
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	post, err := h.postService.Get(ctx, id)
	if err != nil {
		h.postError(c, err)
		return
	}

	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		h.redirect(c, "/login", msgLoginToComment)
		return
	}

	var form commentForm
	errs, err := bindForm(c, &form)
	if err != nil {
		response.BadRequest(c, "Malformed form submission.")
		return
	}
	if errs != nil {
		h.renderPost(c, http.StatusOK, post, form, errs)
		return
	}

	if _, err := h.commentService.Create(ctx, post.ID, identity.UserID, form.Comment); err != nil {
		h.postError(c, err)
		return
	}
	h.redirect(c, postURL(post.ID))
}

func (h *Handler) NewPostPage(c *gin.Context) {
	h.render(c, http.StatusOK, "make-post.html", gin.H{"Title": "New Post", "Form": postForm{}})
}

// CreatePost 日期取当前时间，作者为当前管理员
func (h *Handler) CreatePost(c *gin.Context) {
	var form postForm
	errs, err := bindForm(c, &form)
	if err != nil {
		response.BadRequest(c, "Malformed form submission.")
		return
	}
	if errs != nil {
		h.render(c, http.StatusOK, "make-post.html", gin.H{"Title": "New Post", "Form": form, "Errors": errs})
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	if _, err := h.postService.Create(c.Request.Context(), identity.UserID, form.input()); err != nil {
		if errors.Is(err, service.ErrTitleTaken) {
			h.redirect(c, "/new-post", msgTitleTaken)
			return
		}
		response.InternalError(c, err)
		return
	}
	h.redirect(c, "/")
}

func (h *Handler) EditPostPage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		h.postError(c, err)
		return
	}
	form := postForm{Title: post.Title, Subtitle: post.Subtitle, ImgURL: post.ImgURL, Body: post.Body}
	h.render(c, http.StatusOK, "make-post.html", gin.H{
		"Title": "Edit Post", "Form": form, "IsEdit": true, "PostID": post.ID,
	})
}

// UpdatePost 先确认文章存在再校验表单
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.postService.Get(ctx, id); err != nil {
		h.postError(c, err)
		return
	}

	var form postForm
	errs, err := bindForm(c, &form)
	if err != nil {
		response.BadRequest(c, "Malformed form submission.")
		return
	}
	if errs != nil {
		h.render(c, http.StatusOK, "make-post.html", gin.H{
			"Title": "Edit Post", "Form": form, "Errors": errs, "IsEdit": true, "PostID": id,
		})
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	if _, err := h.postService.Update(ctx, id, identity.UserID, form.input()); err != nil {
		if errors.Is(err, service.ErrTitleTaken) {
			h.redirect(c, fmt.Sprintf("/edit-post/%d", id), msgTitleTaken)
			return
		}
		h.postError(c, err)
		return
	}
	h.redirect(c, postURL(id))
}

func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.postService.Delete(c.Request.Context(), id); err != nil {
		h.postError(c, err)
		return
	}
	h.redirect(c, "/")
}

// DeleteComment 删除后回到所属文章
func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	postID, err := h.commentService.Delete(c.Request.Context(), id)
	if err != nil {
		h.postError(c, err)
		return
	}
	h.redirect(c, postURL(postID))
}

func (h *Handler) renderPost(c *gin.Context, status int, post *model.Post, form commentForm, errs fieldErrors) {
	ctx := c.Request.Context()
	comments, err := h.commentService.ListByPost(ctx, post.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	ids := make([]uint, 0, len(comments)+1)
	ids = append(ids, post.AuthorID)
	for _, cm := range comments {
		ids = append(ids, cm.AuthorID)
	}
	users, err := h.authService.UsersByID(ctx, ids)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	views := make([]commentView, 0, len(comments))
	for _, cm := range comments {
		v := commentView{Comment: cm, AuthorName: unknownAuthor, AvatarURL: model.AvatarURL("")}
		if u, ok := users[cm.AuthorID]; ok {
			v.AuthorName, v.AvatarURL = u.Name, u.AvatarURL()
		}
		views = append(views, v)
	}

	h.render(c, status, "post.html", gin.H{
		"Title":    post.Title,
		"Post":     postView{Post: post, AuthorName: authorName(users, post.AuthorID)},
		"Comments": views,
		"Form":     form,
		"Errors":   errs,
	})
}

func (h *Handler) postViews(ctx context.Context, posts ...*model.Post) ([]postView, error) {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
	}
	users, err := h.authService.UsersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postView{Post: p, AuthorName: authorName(users, p.AuthorID)})
	}
	return views, nil
}

// postError 业务错误转 404，其余按 500 处理
func (h *Handler) postError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrCommentNotFound):
		response.NotFound(c)
	default:
		response.InternalError(c, err)
	}
}

func (f postForm) input() service.PostInput {
	return service.PostInput{Title: f.Title, Subtitle: f.Subtitle, Body: f.Body, ImgURL: f.ImgURL}
}

func authorName(users map[uint]*model.User, id uint) string {
	if u, ok := users[id]; ok {
		return u.Name
	}
	return unknownAuthor
}

func postURL(id uint) string { return fmt.Sprintf("/post/%d", id) }
