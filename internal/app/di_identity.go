package app

import (
	"fmt"

	identityHTTP "github.com/credvault/credvault/internal/identity/http"
	identityRepository "github.com/credvault/credvault/internal/identity/repository"
	identityService "github.com/credvault/credvault/internal/identity/service"
	identityUseCase "github.com/credvault/credvault/internal/identity/usecase"
)

// CompanyRepository returns the company repository for the configured database driver.
func (c *Container) CompanyRepository() (identityUseCase.CompanyRepository, error) {
	var err error
	c.companyRepoInit.Do(func() {
		c.companyRepo, err = c.initCompanyRepository()
		if err != nil {
			c.initErrors["companyRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["companyRepo"]; exists {
		return nil, storedErr
	}
	return c.companyRepo, nil
}

// UserRepository returns the user repository for the configured database driver.
func (c *Container) UserRepository() (identityUseCase.UserRepository, error) {
	var err error
	c.userRepoInit.Do(func() {
		c.userRepo, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() (identityService.PasswordService, error) {
	var err error
	c.passwordServiceInit.Do(func() {
		c.passwordService, err = identityService.NewPasswordService()
		if err != nil {
			c.initErrors["passwordService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["passwordService"]; exists {
		return nil, storedErr
	}
	return c.passwordService, nil
}

// TokenService returns the bearer token service.
func (c *Container) TokenService() (identityService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = identityService.NewTokenService(c.config.AuthTokenSecret)
		if err != nil {
			c.initErrors["tokenService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// AuthUseCase returns the authentication use case.
func (c *Container) AuthUseCase() (identityUseCase.AuthUseCase, error) {
	var err error
	c.authUseCaseInit.Do(func() {
		c.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// UserUseCase returns the company user management use case.
func (c *Container) UserUseCase() (identityUseCase.UserUseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// AuthHandler returns the HTTP handler for registration and login.
func (c *Container) AuthHandler() (*identityHTTP.AuthHandler, error) {
	var err error
	c.authHandlerInit.Do(func() {
		var authUseCase identityUseCase.AuthUseCase
		authUseCase, err = c.AuthUseCase()
		if err != nil {
			c.initErrors["authHandler"] = err
			return
		}
		c.authHandler = identityHTTP.NewAuthHandler(authUseCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.authHandler, nil
}

// UserHandler returns the HTTP handler for company user management.
func (c *Container) UserHandler() (*identityHTTP.UserHandler, error) {
	var err error
	c.userHandlerInit.Do(func() {
		var userUseCase identityUseCase.UserUseCase
		userUseCase, err = c.UserUseCase()
		if err != nil {
			c.initErrors["userHandler"] = err
			return
		}
		c.userHandler = identityHTTP.NewUserHandler(userUseCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userHandler"]; exists {
		return nil, storedErr
	}
	return c.userHandler, nil
}

func (c *Container) initCompanyRepository() (identityUseCase.CompanyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for company repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return identityRepository.NewPostgreSQLCompanyRepository(db), nil
	case "mysql":
		return identityRepository.NewMySQLCompanyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initUserRepository() (identityUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return identityRepository.NewPostgreSQLUserRepository(db), nil
	case "mysql":
		return identityRepository.NewMySQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initAuthUseCase() (identityUseCase.AuthUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for auth use case: %w", err)
	}

	companyRepo, err := c.CompanyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get company repository for auth use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for auth use case: %w", err)
	}

	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for auth use case: %w", err)
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for auth use case: %w", err)
	}

	useCase := identityUseCase.NewAuthUseCase(
		c.config, txManager, companyRepo, userRepo, passwordService, tokenService,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
		}
		useCase = identityUseCase.NewAuthUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

func (c *Container) initUserUseCase() (identityUseCase.UserUseCase, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	if _, err := c.OrganizationRepository(); err != nil {
		return nil, fmt.Errorf("failed to get organization repository for user use case: %w", err)
	}

	collectionRepo, err := c.CollectionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get collection repository for user use case: %w", err)
	}

	folderRepo, err := c.FolderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get folder repository for user use case: %w", err)
	}

	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for user use case: %w", err)
	}

	resolver, err := c.Resolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get resolver for user use case: %w", err)
	}

	useCase := identityUseCase.NewUserUseCase(
		userRepo, c.organizationRepo, collectionRepo, folderRepo, passwordService, resolver,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for user use case: %w", err)
		}
		useCase = identityUseCase.NewUserUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}
