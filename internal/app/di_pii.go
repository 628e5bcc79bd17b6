package app

import (
	"fmt"

	"github.com/allisson/piivault/internal/database"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiHTTP "github.com/allisson/piivault/internal/pii/http"
	piiRepository "github.com/allisson/piivault/internal/pii/repository"
	piiService "github.com/allisson/piivault/internal/pii/service"
	piiUseCase "github.com/allisson/piivault/internal/pii/usecase"
)

// Normalizer returns the field normalizer for the configured default country code.
func (c *Container) Normalizer() (*piiDomain.Normalizer, error) {
	c.normalizerInit.Do(func() {
		normalizer, err := piiDomain.NewNormalizer(c.config.DefaultCountryCode)
		if err != nil {
			err = fmt.Errorf("failed to create normalizer: %w", err)
		}
		c.store("normalizer", err, func() { c.normalizer = normalizer })
	})
	return c.normalizer, c.initError("normalizer")
}

// Codec returns the record codec.
func (c *Container) Codec() (*piiService.Codec, error) {
	c.codecInit.Do(func() {
		codec, err := c.initCodec()
		c.store("codec", err, func() { c.codec = codec })
	})
	return c.codec, c.initError("codec")
}

// PIIRepository returns the repository over the sensitive columns of registered tables.
func (c *Container) PIIRepository() (*piiRepository.SQLPIIRepository, error) {
	c.piiRepoInit.Do(func() {
		repo, err := c.initPIIRepository()
		c.store("piiRepo", err, func() { c.piiRepo = repo })
	})
	return c.piiRepo, c.initError("piiRepo")
}

// CheckpointRepository returns the batch job checkpoint repository.
func (c *Container) CheckpointRepository() (piiUseCase.CheckpointRepository, error) {
	c.checkpointRepoInit.Do(func() {
		repo, err := c.initCheckpointRepository()
		c.store("checkpointRepo", err, func() { c.checkpointRepo = repo })
	})
	return c.checkpointRepo, c.initError("checkpointRepo")
}

// FieldStore returns the encrypted field store.
func (c *Container) FieldStore() (piiUseCase.FieldStore, error) {
	c.fieldStoreInit.Do(func() {
		store, err := c.initFieldStore()
		c.store("fieldStore", err, func() { c.fieldStore = store })
	})
	return c.fieldStore, c.initError("fieldStore")
}

// PIIService returns the public encrypt, decrypt, lookup and rotate API.
func (c *Container) PIIService() (piiUseCase.Service, error) {
	c.piiServiceInit.Do(func() {
		svc, err := c.initPIIService()
		c.store("piiService", err, func() { c.piiService = svc })
	})
	return c.piiService, c.initError("piiService")
}

// PeopleHandler returns the cross-table person lookup handler.
func (c *Container) PeopleHandler() (*piiHTTP.PeopleHandler, error) {
	c.peopleHandlerInit.Do(func() {
		store, err := c.FieldStore()
		if err != nil {
			c.store("peopleHandler", fmt.Errorf("failed to get field store for people handler: %w", err), nil)
			return
		}
		c.peopleHandler = piiHTTP.NewPeopleHandler(store, c.Logger())
	})
	return c.peopleHandler, c.initError("peopleHandler")
}

func (c *Container) initCodec() (*piiService.Codec, error) {
	keyManager, err := c.KeyManager()
	if err != nil {
		return nil, err
	}

	indexer, err := c.BlindIndexer()
	if err != nil {
		return nil, err
	}

	normalizer, err := c.Normalizer()
	if err != nil {
		return nil, err
	}

	return piiService.NewCodec(keyManager, c.AEADManager(), indexer, normalizer, c.Logger()), nil
}

func (c *Container) initPIIRepository() (*piiRepository.SQLPIIRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for pii repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return piiRepository.NewPostgreSQLPIIRepository(db), nil
	case database.DriverMySQL:
		return piiRepository.NewMySQLPIIRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initCheckpointRepository() (piiUseCase.CheckpointRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for checkpoint repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return piiRepository.NewPostgreSQLCheckpointRepository(db), nil
	case database.DriverMySQL:
		return piiRepository.NewMySQLCheckpointRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initFieldStore() (piiUseCase.FieldStore, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for field store: %w", err)
	}

	repo, err := c.PIIRepository()
	if err != nil {
		return nil, err
	}

	checkpoints, err := c.CheckpointRepository()
	if err != nil {
		return nil, err
	}

	codec, err := c.Codec()
	if err != nil {
		return nil, err
	}

	keyManager, err := c.KeyManager()
	if err != nil {
		return nil, err
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	store := piiUseCase.NewFieldStore(
		txManager,
		repo,
		checkpoints,
		codec,
		keyManager,
		c.config.RotationConcurrency,
		c.Logger(),
	)
	return piiUseCase.NewFieldStoreWithMetrics(store, bm), nil
}

func (c *Container) initPIIService() (piiUseCase.Service, error) {
	store, err := c.FieldStore()
	if err != nil {
		return nil, err
	}

	codec, err := c.Codec()
	if err != nil {
		return nil, err
	}

	keyManager, err := c.KeyManager()
	if err != nil {
		return nil, err
	}

	return piiUseCase.NewPIIUseCase(store, codec, keyManager, c.Logger()), nil
}
