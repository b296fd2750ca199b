package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	cryptoRepository "github.com/credvault/credvault/internal/crypto/repository"
	cryptoService "github.com/credvault/credvault/internal/crypto/service"
	cryptoUseCase "github.com/credvault/credvault/internal/crypto/usecase"
)

// KMSService returns the KMS keeper factory.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// MasterKeyChain returns the loaded master key chain.
//
// When a KMS provider is configured the MASTER_KEYS entries are treated as
// KMS-wrapped ciphertext and decrypted through the keeper. Otherwise the
// entries are plain base64 key material.
func (c *Container) MasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	var err error
	c.masterKeyChainInit.Do(func() {
		c.masterKeyChain, err = c.initMasterKeyChain()
		if err != nil {
			c.initErrors["masterKeyChain"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKeyChain"]; exists {
		return nil, storedErr
	}
	return c.masterKeyChain, nil
}

// AEADManager returns the AEAD cipher factory.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyManager returns the envelope encryption key manager.
func (c *Container) KeyManager() cryptoService.KeyManager {
	c.keyManagerInit.Do(func() {
		c.keyManager = cryptoService.NewKeyManager(c.AEADManager())
	})
	return c.keyManager
}

// KekRepository returns the KEK repository for the configured database driver.
func (c *Container) KekRepository() (cryptoUseCase.KekRepository, error) {
	var err error
	c.kekRepoInit.Do(func() {
		c.kekRepo, err = c.initKekRepository()
		if err != nil {
			c.initErrors["kekRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kekRepo"]; exists {
		return nil, storedErr
	}
	return c.kekRepo, nil
}

// DekRepository returns the DEK repository for the configured database driver.
func (c *Container) DekRepository() (cryptoUseCase.DekRepository, error) {
	var err error
	c.dekRepoInit.Do(func() {
		c.dekRepo, err = c.initDekRepository()
		if err != nil {
			c.initErrors["dekRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dekRepo"]; exists {
		return nil, storedErr
	}
	return c.dekRepo, nil
}

// KekUseCase returns the KEK lifecycle use case.
func (c *Container) KekUseCase() (cryptoUseCase.KekUseCase, error) {
	var err error
	c.kekUseCaseInit.Do(func() {
		c.kekUseCase, err = c.initKekUseCase()
		if err != nil {
			c.initErrors["kekUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kekUseCase"]; exists {
		return nil, storedErr
	}
	return c.kekUseCase, nil
}

// DekUseCase returns the DEK maintenance use case.
func (c *Container) DekUseCase() (cryptoUseCase.DekUseCase, error) {
	var err error
	c.dekUseCaseInit.Do(func() {
		c.dekUseCase, err = c.initDekUseCase()
		if err != nil {
			c.initErrors["dekUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dekUseCase"]; exists {
		return nil, storedErr
	}
	return c.dekUseCase, nil
}

// KekChain returns the unwrapped KEK chain loaded from the database.
// The chain holds plaintext KEKs in memory; Shutdown clears it.
func (c *Container) KekChain() (*cryptoDomain.KekChain, error) {
	var err error
	c.kekChainInit.Do(func() {
		c.kekChain, err = c.loadKekChain()
		if err != nil {
			c.initErrors["kekChain"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kekChain"]; exists {
		return nil, storedErr
	}
	return c.kekChain, nil
}

func (c *Container) initMasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	if c.config.KMSProvider == "" {
		return cryptoDomain.LoadMasterKeyChainFromEnv()
	}

	ctx := context.Background()
	keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper: %w", err)
	}
	defer keeper.Close()

	return cryptoDomain.LoadMasterKeyChainWithKMS(ctx, keeper)
}

func (c *Container) initKekRepository() (cryptoUseCase.KekRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for kek repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return cryptoRepository.NewPostgreSQLKekRepository(db), nil
	case "mysql":
		return cryptoRepository.NewMySQLKekRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initDekRepository() (cryptoUseCase.DekRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for dek repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return cryptoRepository.NewPostgreSQLDekRepository(db), nil
	case "mysql":
		return cryptoRepository.NewMySQLDekRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initKekUseCase() (cryptoUseCase.KekUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for kek use case: %w", err)
	}

	kekRepo, err := c.KekRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get kek repository for kek use case: %w", err)
	}

	return cryptoUseCase.NewKekUseCase(txManager, kekRepo, c.KeyManager()), nil
}

func (c *Container) initDekUseCase() (cryptoUseCase.DekUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for dek use case: %w", err)
	}

	dekRepo, err := c.DekRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get dek repository for dek use case: %w", err)
	}

	return cryptoUseCase.NewDekUseCase(txManager, dekRepo, c.KeyManager()), nil
}

func (c *Container) loadKekChain() (*cryptoDomain.KekChain, error) {
	kekUseCase, err := c.KekUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get kek use case for kek chain: %w", err)
	}

	masterKeyChain, err := c.MasterKeyChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key chain for kek chain: %w", err)
	}

	return kekUseCase.Unwrap(context.Background(), masterKeyChain)
}
