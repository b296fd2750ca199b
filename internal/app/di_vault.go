package app

import (
	"fmt"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	identityUseCase "github.com/credvault/credvault/internal/identity/usecase"
	vaultHTTP "github.com/credvault/credvault/internal/vault/http"
	vaultRepository "github.com/credvault/credvault/internal/vault/repository"
	vaultUseCase "github.com/credvault/credvault/internal/vault/usecase"
)

// organizationRepository combines the method sets the vault and identity use
// cases need from the organization store. Both driver implementations satisfy it.
type organizationRepository interface {
	vaultUseCase.OrganizationRepository
	identityUseCase.OrganizationRepository
}

// OrganizationRepository returns the organization repository for the configured database driver.
func (c *Container) OrganizationRepository() (vaultUseCase.OrganizationRepository, error) {
	var err error
	c.organizationRepoInit.Do(func() {
		c.organizationRepo, err = c.initOrganizationRepository()
		if err != nil {
			c.initErrors["organizationRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["organizationRepo"]; exists {
		return nil, storedErr
	}
	return c.organizationRepo, nil
}

// CollectionRepository returns the collection repository for the configured database driver.
func (c *Container) CollectionRepository() (vaultUseCase.CollectionRepository, error) {
	var err error
	c.collectionRepoInit.Do(func() {
		c.collectionRepo, err = c.initCollectionRepository()
		if err != nil {
			c.initErrors["collectionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["collectionRepo"]; exists {
		return nil, storedErr
	}
	return c.collectionRepo, nil
}

// FolderRepository returns the folder repository for the configured database driver.
func (c *Container) FolderRepository() (vaultUseCase.FolderRepository, error) {
	var err error
	c.folderRepoInit.Do(func() {
		c.folderRepo, err = c.initFolderRepository()
		if err != nil {
			c.initErrors["folderRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["folderRepo"]; exists {
		return nil, storedErr
	}
	return c.folderRepo, nil
}

// CredentialRepository returns the credential repository for the configured database driver.
func (c *Container) CredentialRepository() (vaultUseCase.CredentialRepository, error) {
	var err error
	c.credentialRepoInit.Do(func() {
		c.credentialRepo, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepo"]; exists {
		return nil, storedErr
	}
	return c.credentialRepo, nil
}

// TrashRepository returns the trash repository for the configured database driver.
func (c *Container) TrashRepository() (vaultUseCase.TrashRepository, error) {
	var err error
	c.trashRepoInit.Do(func() {
		c.trashRepo, err = c.initTrashRepository()
		if err != nil {
			c.initErrors["trashRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["trashRepo"]; exists {
		return nil, storedErr
	}
	return c.trashRepo, nil
}

// FieldDecrypter returns the credential field decrypter shared with autofill.
func (c *Container) FieldDecrypter() (*vaultUseCase.FieldDecrypter, error) {
	var err error
	c.fieldDecrypterInit.Do(func() {
		c.fieldDecrypter, err = c.initFieldDecrypter()
		if err != nil {
			c.initErrors["fieldDecrypter"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldDecrypter"]; exists {
		return nil, storedErr
	}
	return c.fieldDecrypter, nil
}

// OrganizationUseCase returns the organization use case.
func (c *Container) OrganizationUseCase() (vaultUseCase.OrganizationUseCase, error) {
	var err error
	c.organizationUseCaseInit.Do(func() {
		c.organizationUseCase, err = c.initOrganizationUseCase()
		if err != nil {
			c.initErrors["organizationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["organizationUseCase"]; exists {
		return nil, storedErr
	}
	return c.organizationUseCase, nil
}

// CollectionUseCase returns the collection use case.
func (c *Container) CollectionUseCase() (vaultUseCase.CollectionUseCase, error) {
	var err error
	c.collectionUseCaseInit.Do(func() {
		c.collectionUseCase, err = c.initCollectionUseCase()
		if err != nil {
			c.initErrors["collectionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["collectionUseCase"]; exists {
		return nil, storedErr
	}
	return c.collectionUseCase, nil
}

// FolderUseCase returns the folder use case.
func (c *Container) FolderUseCase() (vaultUseCase.FolderUseCase, error) {
	var err error
	c.folderUseCaseInit.Do(func() {
		c.folderUseCase, err = c.initFolderUseCase()
		if err != nil {
			c.initErrors["folderUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["folderUseCase"]; exists {
		return nil, storedErr
	}
	return c.folderUseCase, nil
}

// CredentialUseCase returns the credential use case.
func (c *Container) CredentialUseCase() (vaultUseCase.CredentialUseCase, error) {
	var err error
	c.credentialUseCaseInit.Do(func() {
		c.credentialUseCase, err = c.initCredentialUseCase()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// TrashUseCase returns the trash use case.
func (c *Container) TrashUseCase() (vaultUseCase.TrashUseCase, error) {
	var err error
	c.trashUseCaseInit.Do(func() {
		c.trashUseCase, err = c.initTrashUseCase()
		if err != nil {
			c.initErrors["trashUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["trashUseCase"]; exists {
		return nil, storedErr
	}
	return c.trashUseCase, nil
}

// OrganizationHandler returns the HTTP handler for organizations.
func (c *Container) OrganizationHandler() (*vaultHTTP.OrganizationHandler, error) {
	var err error
	c.organizationHandlerInit.Do(func() {
		var useCase vaultUseCase.OrganizationUseCase
		useCase, err = c.OrganizationUseCase()
		if err != nil {
			c.initErrors["organizationHandler"] = err
			return
		}
		c.organizationHandler = vaultHTTP.NewOrganizationHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["organizationHandler"]; exists {
		return nil, storedErr
	}
	return c.organizationHandler, nil
}

// CollectionHandler returns the HTTP handler for collections.
func (c *Container) CollectionHandler() (*vaultHTTP.CollectionHandler, error) {
	var err error
	c.collectionHandlerInit.Do(func() {
		var useCase vaultUseCase.CollectionUseCase
		useCase, err = c.CollectionUseCase()
		if err != nil {
			c.initErrors["collectionHandler"] = err
			return
		}
		c.collectionHandler = vaultHTTP.NewCollectionHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["collectionHandler"]; exists {
		return nil, storedErr
	}
	return c.collectionHandler, nil
}

// FolderHandler returns the HTTP handler for folders.
func (c *Container) FolderHandler() (*vaultHTTP.FolderHandler, error) {
	var err error
	c.folderHandlerInit.Do(func() {
		var useCase vaultUseCase.FolderUseCase
		useCase, err = c.FolderUseCase()
		if err != nil {
			c.initErrors["folderHandler"] = err
			return
		}
		c.folderHandler = vaultHTTP.NewFolderHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["folderHandler"]; exists {
		return nil, storedErr
	}
	return c.folderHandler, nil
}

// CredentialHandler returns the HTTP handler for credentials.
func (c *Container) CredentialHandler() (*vaultHTTP.CredentialHandler, error) {
	var err error
	c.credentialHandlerInit.Do(func() {
		var useCase vaultUseCase.CredentialUseCase
		useCase, err = c.CredentialUseCase()
		if err != nil {
			c.initErrors["credentialHandler"] = err
			return
		}
		c.credentialHandler = vaultHTTP.NewCredentialHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialHandler"]; exists {
		return nil, storedErr
	}
	return c.credentialHandler, nil
}

// TrashHandler returns the HTTP handler for the trash.
func (c *Container) TrashHandler() (*vaultHTTP.TrashHandler, error) {
	var err error
	c.trashHandlerInit.Do(func() {
		var useCase vaultUseCase.TrashUseCase
		useCase, err = c.TrashUseCase()
		if err != nil {
			c.initErrors["trashHandler"] = err
			return
		}
		c.trashHandler = vaultHTTP.NewTrashHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["trashHandler"]; exists {
		return nil, storedErr
	}
	return c.trashHandler, nil
}

func (c *Container) initOrganizationRepository() (organizationRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for organization repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLOrganizationRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLOrganizationRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initCollectionRepository() (vaultUseCase.CollectionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for collection repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLCollectionRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLCollectionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initFolderRepository() (vaultUseCase.FolderRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for folder repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLFolderRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLFolderRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initCredentialRepository() (vaultUseCase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLCredentialRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLCredentialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initTrashRepository() (vaultUseCase.TrashRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for trash repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLTrashRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLTrashRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initFieldDecrypter() (*vaultUseCase.FieldDecrypter, error) {
	dekRepo, err := c.DekRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get dek repository for field decrypter: %w", err)
	}

	kekChain, err := c.KekChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get kek chain for field decrypter: %w", err)
	}

	return vaultUseCase.NewFieldDecrypter(dekRepo, kekChain, c.KeyManager(), c.AEADManager()), nil
}

func (c *Container) initOrganizationUseCase() (vaultUseCase.OrganizationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for organization use case: %w", err)
	}

	organizationRepo, err := c.OrganizationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get organization repository for organization use case: %w", err)
	}

	trashRepo, err := c.TrashRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get trash repository for organization use case: %w", err)
	}

	resolver, err := c.Resolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get resolver for organization use case: %w", err)
	}

	useCase := vaultUseCase.NewOrganizationUseCase(txManager, organizationRepo, trashRepo, resolver)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for organization use case: %w", err)
		}
		useCase = vaultUseCase.NewOrganizationUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

func (c *Container) initCollectionUseCase() (vaultUseCase.CollectionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for collection use case: %w", err)
	}

	collectionRepo, err := c.CollectionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get collection repository for collection use case: %w", err)
	}

	organizationRepo, err := c.OrganizationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get organization repository for collection use case: %w", err)
	}

	trashRepo, err := c.TrashRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get trash repository for collection use case: %w", err)
	}

	resolver, err := c.Resolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get resolver for collection use case: %w", err)
	}

	useCase := vaultUseCase.NewCollectionUseCase(txManager, collectionRepo, organizationRepo, trashRepo, resolver)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for collection use case: %w", err)
		}
		useCase = vaultUseCase.NewCollectionUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

func (c *Container) initFolderUseCase() (vaultUseCase.FolderUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for folder use case: %w", err)
	}

	folderRepo, err := c.FolderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get folder repository for folder use case: %w", err)
	}

	collectionRepo, err := c.CollectionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get collection repository for folder use case: %w", err)
	}

	organizationRepo, err := c.OrganizationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get organization repository for folder use case: %w", err)
	}

	trashRepo, err := c.TrashRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get trash repository for folder use case: %w", err)
	}

	resolver, err := c.Resolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get resolver for folder use case: %w", err)
	}

	useCase := vaultUseCase.NewFolderUseCase(txManager, folderRepo, collectionRepo, organizationRepo, trashRepo, resolver)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for folder use case: %w", err)
		}
		useCase = vaultUseCase.NewFolderUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

func (c *Container) initCredentialUseCase() (vaultUseCase.CredentialUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for credential use case: %w", err)
	}

	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for credential use case: %w", err)
	}

	organizationRepo, err := c.OrganizationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get organization repository for credential use case: %w", err)
	}

	collectionRepo, err := c.CollectionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get collection repository for credential use case: %w", err)
	}

	folderRepo, err := c.FolderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get folder repository for credential use case: %w", err)
	}

	trashRepo, err := c.TrashRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get trash repository for credential use case: %w", err)
	}

	dekRepo, err := c.DekRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get dek repository for credential use case: %w", err)
	}

	resolver, err := c.Resolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get resolver for credential use case: %w", err)
	}

	kekChain, err := c.KekChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get kek chain for credential use case: %w", err)
	}

	useCase := vaultUseCase.NewCredentialUseCase(
		txManager,
		credentialRepo,
		organizationRepo,
		collectionRepo,
		folderRepo,
		trashRepo,
		dekRepo,
		resolver,
		kekChain,
		c.AEADManager(),
		c.KeyManager(),
		cryptoDomain.AESGCM,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
		}
		useCase = vaultUseCase.NewCredentialUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

func (c *Container) initTrashUseCase() (vaultUseCase.TrashUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for trash use case: %w", err)
	}

	trashRepo, err := c.TrashRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get trash repository for trash use case: %w", err)
	}

	organizationRepo, err := c.OrganizationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get organization repository for trash use case: %w", err)
	}

	collectionRepo, err := c.CollectionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get collection repository for trash use case: %w", err)
	}

	folderRepo, err := c.FolderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get folder repository for trash use case: %w", err)
	}

	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for trash use case: %w", err)
	}

	resolver, err := c.Resolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get resolver for trash use case: %w", err)
	}

	useCase := vaultUseCase.NewTrashUseCase(
		txManager, trashRepo, organizationRepo, collectionRepo, folderRepo, credentialRepo, resolver,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for trash use case: %w", err)
		}
		useCase = vaultUseCase.NewTrashUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}
