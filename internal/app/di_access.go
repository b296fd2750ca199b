package app

import (
	"fmt"

	accessPkg "github.com/credvault/credvault/internal/access"
)

// Resolver returns the authorization scope resolver shared by every use case.
func (c *Container) Resolver() (*accessPkg.Resolver, error) {
	var err error
	c.resolverInit.Do(func() {
		c.resolver, err = c.initResolver()
		if err != nil {
			c.initErrors["resolver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resolver"]; exists {
		return nil, storedErr
	}
	return c.resolver, nil
}

func (c *Container) initResolver() (*accessPkg.Resolver, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for resolver: %w", err)
	}

	folderRepo, err := c.FolderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get folder repository for resolver: %w", err)
	}

	collectionRepo, err := c.CollectionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get collection repository for resolver: %w", err)
	}

	return accessPkg.NewResolver(userRepo, folderRepo, collectionRepo), nil
}
