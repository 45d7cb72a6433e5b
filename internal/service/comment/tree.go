package comment

import "webdating-engagement/internal/domain"

// Place returns where a reply to parent is stored. Replies that would go
// deeper than MaxCommentLevel are attached to the parent's own parent at the
// maximum level, which keeps every thread at most three levels deep. A nil
// parent yields a root comment.
func Place(parent *domain.Comment) (parentID int64, level int) {
	if parent == nil {
		return 0, 1
	}

	level = parent.Level + 1
	if level > domain.MaxCommentLevel {
		return parent.ParentID, domain.MaxCommentLevel
	}
	return parent.ID, level
}

// BuildTree nests the flat comment list of a post. Roots are comments without
// a parent stored at level 1; below them a node only adopts children stored
// at exactly its level plus one, and nothing deeper than MaxCommentLevel is
// visited. Sibling order follows the input order.
//
// stats maps comment id to its reaction counts. BuildTree does not modify
// its inputs.
func BuildTree(comments []domain.Comment, stats map[int64]map[domain.ReactionType]int) []domain.CommentNode {
	byParent := make(map[int64][]*domain.Comment, len(comments))
	for i := range comments {
		c := &comments[i]
		byParent[c.ParentID] = append(byParent[c.ParentID], c)
	}
	return children(byParent, stats, 0, 1)
}

func children(byParent map[int64][]*domain.Comment, stats map[int64]map[domain.ReactionType]int, parentID int64, depth int) []domain.CommentNode {
	nodes := []domain.CommentNode{}
	if depth > domain.MaxCommentLevel {
		return nodes
	}

	for _, c := range byParent[parentID] {
		if c.Level != depth {
			continue
		}
		node := newNode(c, stats[c.ID])
		node.Descendants = children(byParent, stats, c.ID, depth+1)
		nodes = append(nodes, node)
	}
	return nodes
}

func newNode(c *domain.Comment, counts map[domain.ReactionType]int) domain.CommentNode {
	nodeStats := make(map[domain.ReactionType]int, len(counts))
	for k, v := range counts {
		nodeStats[k] = v
	}
	return domain.CommentNode{
		ID:          c.ID,
		PostID:      c.PostID,
		UserID:      c.UserID,
		ParentID:    c.ParentID,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Stats:       nodeStats,
		Descendants: []domain.CommentNode{},
	}
}

func statsByComment(rows []domain.CommentReactionCount) map[int64]map[domain.ReactionType]int {
	out := make(map[int64]map[domain.ReactionType]int)
	for _, row := range rows {
		m, ok := out[row.CommentID]
		if !ok {
			m = make(map[domain.ReactionType]int)
			out[row.CommentID] = m
		}
		m[row.Type] += row.Count
	}
	return out
}
