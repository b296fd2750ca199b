package app

import (
	"fmt"

	autofillHTTP "github.com/credvault/credvault/internal/autofill/http"
	autofillRepository "github.com/credvault/credvault/internal/autofill/repository"
	autofillUseCase "github.com/credvault/credvault/internal/autofill/usecase"
)

// SelectionRepository returns the selection repository for the configured database driver.
func (c *Container) SelectionRepository() (autofillUseCase.SelectionRepository, error) {
	var err error
	c.selectionRepoInit.Do(func() {
		c.selectionRepo, err = c.initSelectionRepository()
		if err != nil {
			c.initErrors["selectionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["selectionRepo"]; exists {
		return nil, storedErr
	}
	return c.selectionRepo, nil
}

// LocatorUseCase returns the autofill credential locator use case.
func (c *Container) LocatorUseCase() (autofillUseCase.LocatorUseCase, error) {
	var err error
	c.locatorUseCaseInit.Do(func() {
		c.locatorUseCase, err = c.initLocatorUseCase()
		if err != nil {
			c.initErrors["locatorUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["locatorUseCase"]; exists {
		return nil, storedErr
	}
	return c.locatorUseCase, nil
}

// AutofillHandler returns the HTTP handler for the autofill endpoints.
func (c *Container) AutofillHandler() (*autofillHTTP.AutofillHandler, error) {
	var err error
	c.autofillHandlerInit.Do(func() {
		var useCase autofillUseCase.LocatorUseCase
		useCase, err = c.LocatorUseCase()
		if err != nil {
			c.initErrors["autofillHandler"] = err
			return
		}
		c.autofillHandler = autofillHTTP.NewAutofillHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["autofillHandler"]; exists {
		return nil, storedErr
	}
	return c.autofillHandler, nil
}

func (c *Container) initSelectionRepository() (autofillUseCase.SelectionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for selection repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return autofillRepository.NewPostgreSQLSelectionRepository(db), nil
	case "mysql":
		return autofillRepository.NewMySQLSelectionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initLocatorUseCase() (autofillUseCase.LocatorUseCase, error) {
	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for locator use case: %w", err)
	}

	selectionRepo, err := c.SelectionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get selection repository for locator use case: %w", err)
	}

	resolver, err := c.Resolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get resolver for locator use case: %w", err)
	}

	decrypter, err := c.FieldDecrypter()
	if err != nil {
		return nil, fmt.Errorf("failed to get field decrypter for locator use case: %w", err)
	}

	useCase := autofillUseCase.NewLocatorUseCase(credentialRepo, selectionRepo, resolver, decrypter)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for locator use case: %w", err)
		}
		useCase = autofillUseCase.NewLocatorUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}
