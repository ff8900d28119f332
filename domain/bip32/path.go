package bip32

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type path struct {
	isPrivate bool
	indexes   []uint32
}

func parsePath(pathString string) (*path, error) {
	parts := strings.Split(pathString, "/")
	isPrivate := false
	switch parts[0] {
	case "m":
		isPrivate = true
	case "M":
		isPrivate = false
	default:
		return nil, errors.Errorf("%s is an invalid extended key type", parts[0])
	}

	indexParts := parts[1:]
	indexes := make([]uint32, len(indexParts))
	for i, part := range indexParts {
		var err error
		indexes[i], err = parseIndex(part)
		if err != nil {
			return nil, err
		}
	}

	return &path{
		isPrivate: isPrivate,
		indexes:   indexes,
	}, nil
}

func parseIndex(indexString string) (uint32, error) {
	const hardenedSuffix = "'"
	isHardened := strings.HasSuffix(indexString, hardenedSuffix)
	trimmedIndexString := strings.TrimSuffix(indexString, hardenedSuffix)
	index, err := strconv.ParseUint(trimmedIndexString, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "%s is an invalid index", indexString)
	}

	if index >= hardenedIndexStart {
		return 0, errors.Errorf("max index value is %d but got %d", hardenedIndexStart-1, index)
	}

	if isHardened {
		return uint32(index) + hardenedIndexStart, nil
	}

	return uint32(index), nil
}

// Path returns the descendant of this extended key at the given derivation
// path. Paths starting with "M" return a public extended key.
func (extKey *ExtendedKey) Path(pathString string) (*ExtendedKey, error) {
	parsedPath, err := parsePath(pathString)
	if err != nil {
		return nil, err
	}

	return extKey.path(parsedPath)
}

func (extKey *ExtendedKey) path(path *path) (*ExtendedKey, error) {
	descendantExtKey := extKey
	for _, index := range path.indexes {
		var err error
		descendantExtKey, err = descendantExtKey.Child(index)
		if err != nil {
			return nil, err
		}
	}

	if !path.isPrivate {
		return descendantExtKey.Public()
	}

	return descendantExtKey, nil
}
