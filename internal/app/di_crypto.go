package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	cryptoRepository "github.com/allisson/piivault/internal/crypto/repository"
	cryptoService "github.com/allisson/piivault/internal/crypto/service"
	cryptoUseCase "github.com/allisson/piivault/internal/crypto/usecase"
	"github.com/allisson/piivault/internal/database"
)

// RootKeyChain returns the root keys loaded from configuration, unwrapped through KMS
// when a provider is configured.
func (c *Container) RootKeyChain() (*cryptoDomain.RootKeyChain, error) {
	c.rootKeyChainInit.Do(func() {
		chain, err := cryptoDomain.LoadRootKeyChain(
			context.Background(),
			c.config.RootKeySource(),
			c.KMSService(),
			c.Logger(),
		)
		if err != nil {
			err = fmt.Errorf("failed to load root key chain: %w", err)
		}
		c.store("rootKeyChain", err, func() { c.rootKeyChain = chain })
	})
	return c.rootKeyChain, c.initError("rootKeyChain")
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyDeriver returns the HKDF key deriver.
func (c *Container) KeyDeriver() cryptoService.KeyDeriver {
	c.keyDeriverInit.Do(func() {
		c.keyDeriver = cryptoService.NewKeyDeriver()
	})
	return c.keyDeriver
}

// BlindIndexer returns the HMAC blind indexer sized by BLIND_INDEX_SIZE.
func (c *Container) BlindIndexer() (cryptoService.BlindIndexer, error) {
	c.blindIndexerInit.Do(func() {
		indexer, err := cryptoService.NewBlindIndexer(c.config.BlindIndexSize)
		if err != nil {
			err = fmt.Errorf("failed to create blind indexer: %w", err)
		}
		c.store("blindIndexer", err, func() { c.blindIndexer = indexer })
	})
	return c.blindIndexer, c.initError("blindIndexer")
}

// KeyVersionRepository returns the key version repository for the configured driver.
func (c *Container) KeyVersionRepository() (cryptoUseCase.KeyVersionRepository, error) {
	c.keyVersionRepoInit.Do(func() {
		repo, err := c.initKeyVersionRepository()
		c.store("keyVersionRepo", err, func() { c.keyVersionRepo = repo })
	})
	return c.keyVersionRepo, c.initError("keyVersionRepo")
}

// KeyManager returns the key manager with its ring loaded. The first call creates key
// version 1 when the database holds none.
func (c *Container) KeyManager() (cryptoUseCase.KeyManager, error) {
	c.keyManagerInit.Do(func() {
		km, err := c.initKeyManager()
		c.store("keyManager", err, func() { c.keyManager = km })
	})
	return c.keyManager, c.initError("keyManager")
}

func (c *Container) initKeyVersionRepository() (cryptoUseCase.KeyVersionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for key version repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return cryptoRepository.NewPostgreSQLKeyVersionRepository(db), nil
	case database.DriverMySQL:
		return cryptoRepository.NewMySQLKeyVersionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initKeyManager() (cryptoUseCase.KeyManager, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.CipherAlgorithm)
	if err != nil {
		return nil, err
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for key manager: %w", err)
	}

	repo, err := c.KeyVersionRepository()
	if err != nil {
		return nil, err
	}

	// Purge asks the pii repository whether a version is still referenced.
	usage, err := c.PIIRepository()
	if err != nil {
		return nil, err
	}

	rootKeyChain, err := c.RootKeyChain()
	if err != nil {
		return nil, err
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	km := cryptoUseCase.NewKeyManager(
		txManager,
		repo,
		usage,
		c.KeyDeriver(),
		rootKeyChain,
		alg,
		c.config.KeyRefreshInterval,
		c.Logger(),
	)
	if err := km.Load(context.Background()); err != nil {
		km.Close()
		return nil, fmt.Errorf("failed to load key versions: %w", err)
	}

	return cryptoUseCase.NewKeyManagerWithMetrics(km, bm), nil
}
