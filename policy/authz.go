package policy

import "github.com/avelorn/blogward/models"

// CanMutatePost reports whether the requester may edit or delete the post.
// Only the owning author may; anonymous requesters are always denied.
func CanMutatePost(p *models.Post, requester Viewer) bool {
	return requester.Is(p.AuthorID)
}

// CanMutateComment reports whether the requester may edit or delete the
// comment.
func CanMutateComment(c *models.Comment, requester Viewer) bool {
	return requester.Is(c.AuthorID)
}

// CanMutateProfile reports whether the requester may update the user record.
// Users may only update themselves.
func CanMutateProfile(u *models.User, requester Viewer) bool {
	return requester.Is(u.ID)
}
