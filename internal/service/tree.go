package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/imagevault/internal/model"
)

// BuildForest assembles the owner's nested folder forest.
//
// Rather than issuing one store query per node (the obvious recursive
// approach, O(n) round-trips), it fetches all of the owner's folders in a
// single query and groups them in memory:
//
//	pass 1: wrap every folder in a FolderNode, indexed by ID
//	pass 2: attach each node to its parent's children, or to the root list
//
// The repository returns folders ordered by creation time, and both passes
// preserve that order, so siblings come back oldest-first and the output
// is stable across rebuilds.
//
// Every fetched folder appears in the forest exactly once. A node whose
// parent ID doesn't resolve (possible only if a parent row vanished
// underneath it) is kept as a root rather than silently dropped, so the
// forest's node count always equals the owner's folder count.
//
// A store failure fails the whole build — there is no partial forest.
func (s *FolderService) BuildForest(ctx context.Context, ownerID string) ([]*model.FolderNode, error) {
	folders, err := s.folders.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to fetch folders for forest",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/folder: building forest: %w", err)
	}

	nodes := make(map[string]*model.FolderNode, len(folders))
	for i := range folders {
		nodes[folders[i].ID] = &model.FolderNode{
			Folder:   folders[i],
			Children: []*model.FolderNode{},
		}
	}

	roots := []*model.FolderNode{}
	for i := range folders {
		node := nodes[folders[i].ID]
		if folders[i].ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*folders[i].ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
	}

	return roots, nil
}
