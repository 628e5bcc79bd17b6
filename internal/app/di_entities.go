package app

import (
	"fmt"

	customerHTTP "github.com/allisson/piivault/internal/customer/http"
	customerRepository "github.com/allisson/piivault/internal/customer/repository"
	customerUseCase "github.com/allisson/piivault/internal/customer/usecase"
	"github.com/allisson/piivault/internal/database"
	recommendationHTTP "github.com/allisson/piivault/internal/recommendation/http"
	recommendationRepository "github.com/allisson/piivault/internal/recommendation/repository"
	recommendationUseCase "github.com/allisson/piivault/internal/recommendation/usecase"
	recruitmentHTTP "github.com/allisson/piivault/internal/recruitment/http"
	recruitmentRepository "github.com/allisson/piivault/internal/recruitment/repository"
	recruitmentUseCase "github.com/allisson/piivault/internal/recruitment/usecase"
	userDateHTTP "github.com/allisson/piivault/internal/userdate/http"
	userDateRepository "github.com/allisson/piivault/internal/userdate/repository"
	userDateUseCase "github.com/allisson/piivault/internal/userdate/usecase"
)

// CustomerRepository returns the customer repository.
func (c *Container) CustomerRepository() (customerUseCase.CustomerRepository, error) {
	c.customerRepoInit.Do(func() {
		repo, err := c.initCustomerRepository()
		c.store("customerRepo", err, func() { c.customerRepo = repo })
	})
	return c.customerRepo, c.initError("customerRepo")
}

// CustomerUseCase returns the customer use case wrapped with metrics.
func (c *Container) CustomerUseCase() (customerUseCase.CustomerUseCase, error) {
	c.customerUseCaseInit.Do(func() {
		uc, err := c.initCustomerUseCase()
		c.store("customerUseCase", err, func() { c.customerUseCase = uc })
	})
	return c.customerUseCase, c.initError("customerUseCase")
}

// CustomerHandler returns the customer HTTP handler.
func (c *Container) CustomerHandler() (*customerHTTP.CustomerHandler, error) {
	c.customerHandlerInit.Do(func() {
		uc, err := c.CustomerUseCase()
		if err != nil {
			c.store("customerHandler", fmt.Errorf("failed to get customer use case for customer handler: %w", err), nil)
			return
		}
		c.customerHandler = customerHTTP.NewCustomerHandler(uc, c.Logger())
	})
	return c.customerHandler, c.initError("customerHandler")
}

// RecruitmentRepository returns the recruitment repository.
func (c *Container) RecruitmentRepository() (recruitmentUseCase.RecruitmentRepository, error) {
	c.recruitmentRepoInit.Do(func() {
		repo, err := c.initRecruitmentRepository()
		c.store("recruitmentRepo", err, func() { c.recruitmentRepo = repo })
	})
	return c.recruitmentRepo, c.initError("recruitmentRepo")
}

// RecruitmentUseCase returns the recruitment use case wrapped with metrics.
func (c *Container) RecruitmentUseCase() (recruitmentUseCase.RecruitmentUseCase, error) {
	c.recruitmentUseCaseInit.Do(func() {
		uc, err := c.initRecruitmentUseCase()
		c.store("recruitmentUseCase", err, func() { c.recruitmentUseCase = uc })
	})
	return c.recruitmentUseCase, c.initError("recruitmentUseCase")
}

// RecruitmentHandler returns the recruitment HTTP handler.
func (c *Container) RecruitmentHandler() (*recruitmentHTTP.RecruitmentHandler, error) {
	c.recruitmentHandlerInit.Do(func() {
		uc, err := c.RecruitmentUseCase()
		if err != nil {
			c.store(
				"recruitmentHandler",
				fmt.Errorf("failed to get recruitment use case for recruitment handler: %w", err),
				nil,
			)
			return
		}
		c.recruitmentHandler = recruitmentHTTP.NewRecruitmentHandler(uc, c.Logger())
	})
	return c.recruitmentHandler, c.initError("recruitmentHandler")
}

func (c *Container) initCustomerRepository() (customerUseCase.CustomerRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for customer repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return customerRepository.NewPostgreSQLCustomerRepository(db), nil
	case database.DriverMySQL:
		return customerRepository.NewMySQLCustomerRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initCustomerUseCase() (customerUseCase.CustomerUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for customer use case: %w", err)
	}

	repo, err := c.CustomerRepository()
	if err != nil {
		return nil, err
	}

	store, err := c.FieldStore()
	if err != nil {
		return nil, err
	}

	pii, err := c.PIIService()
	if err != nil {
		return nil, err
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	uc := customerUseCase.NewCustomerUseCase(txManager, repo, store, pii, c.Logger())
	return customerUseCase.NewCustomerUseCaseWithMetrics(uc, bm), nil
}

func (c *Container) initRecruitmentRepository() (recruitmentUseCase.RecruitmentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for recruitment repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return recruitmentRepository.NewPostgreSQLRecruitmentRepository(db), nil
	case database.DriverMySQL:
		return recruitmentRepository.NewMySQLRecruitmentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initRecruitmentUseCase() (recruitmentUseCase.RecruitmentUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for recruitment use case: %w", err)
	}

	repo, err := c.RecruitmentRepository()
	if err != nil {
		return nil, err
	}

	store, err := c.FieldStore()
	if err != nil {
		return nil, err
	}

	pii, err := c.PIIService()
	if err != nil {
		return nil, err
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	uc := recruitmentUseCase.NewRecruitmentUseCase(txManager, repo, store, pii, c.Logger())
	return recruitmentUseCase.NewRecruitmentUseCaseWithMetrics(uc, bm), nil
}

// UserDateRepository returns the user date repository.
func (c *Container) UserDateRepository() (userDateUseCase.UserDateRepository, error) {
	c.userDateRepoInit.Do(func() {
		repo, err := c.initUserDateRepository()
		c.store("userDateRepo", err, func() { c.userDateRepo = repo })
	})
	return c.userDateRepo, c.initError("userDateRepo")
}

// UserDateUseCase returns the user date use case wrapped with metrics.
func (c *Container) UserDateUseCase() (userDateUseCase.UserDateUseCase, error) {
	c.userDateUseCaseInit.Do(func() {
		uc, err := c.initUserDateUseCase()
		c.store("userDateUseCase", err, func() { c.userDateUseCase = uc })
	})
	return c.userDateUseCase, c.initError("userDateUseCase")
}

// UserDateHandler returns the user date HTTP handler.
func (c *Container) UserDateHandler() (*userDateHTTP.UserDateHandler, error) {
	c.userDateHandlerInit.Do(func() {
		uc, err := c.UserDateUseCase()
		if err != nil {
			c.store("userDateHandler", fmt.Errorf("failed to get user date use case for user date handler: %w", err), nil)
			return
		}
		c.userDateHandler = userDateHTTP.NewUserDateHandler(uc, c.Logger())
	})
	return c.userDateHandler, c.initError("userDateHandler")
}

// RecommendationRepository returns the recommendation repository.
func (c *Container) RecommendationRepository() (recommendationUseCase.RecommendationRepository, error) {
	c.recommendationRepoInit.Do(func() {
		repo, err := c.initRecommendationRepository()
		c.store("recommendationRepo", err, func() { c.recommendationRepo = repo })
	})
	return c.recommendationRepo, c.initError("recommendationRepo")
}

// RecommendationUseCase returns the recommendation use case wrapped with metrics.
func (c *Container) RecommendationUseCase() (recommendationUseCase.RecommendationUseCase, error) {
	c.recommendationUseCaseInit.Do(func() {
		uc, err := c.initRecommendationUseCase()
		c.store("recommendationUseCase", err, func() { c.recommendationUseCase = uc })
	})
	return c.recommendationUseCase, c.initError("recommendationUseCase")
}

// RecommendationHandler returns the recommendation HTTP handler.
func (c *Container) RecommendationHandler() (*recommendationHTTP.RecommendationHandler, error) {
	c.recommendationHandlerInit.Do(func() {
		uc, err := c.RecommendationUseCase()
		if err != nil {
			c.store(
				"recommendationHandler",
				fmt.Errorf("failed to get recommendation use case for recommendation handler: %w", err),
				nil,
			)
			return
		}
		c.recommendationHandler = recommendationHTTP.NewRecommendationHandler(uc, c.Logger())
	})
	return c.recommendationHandler, c.initError("recommendationHandler")
}

func (c *Container) initUserDateRepository() (userDateUseCase.UserDateRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user date repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return userDateRepository.NewPostgreSQLUserDateRepository(db), nil
	case database.DriverMySQL:
		return userDateRepository.NewMySQLUserDateRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initUserDateUseCase() (userDateUseCase.UserDateUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user date use case: %w", err)
	}

	repo, err := c.UserDateRepository()
	if err != nil {
		return nil, err
	}

	store, err := c.FieldStore()
	if err != nil {
		return nil, err
	}

	pii, err := c.PIIService()
	if err != nil {
		return nil, err
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	uc := userDateUseCase.NewUserDateUseCase(txManager, repo, store, pii, c.Logger())
	return userDateUseCase.NewUserDateUseCaseWithMetrics(uc, bm), nil
}

func (c *Container) initRecommendationRepository() (recommendationUseCase.RecommendationRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for recommendation repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return recommendationRepository.NewPostgreSQLRecommendationRepository(db), nil
	case database.DriverMySQL:
		return recommendationRepository.NewMySQLRecommendationRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initRecommendationUseCase() (recommendationUseCase.RecommendationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for recommendation use case: %w", err)
	}

	repo, err := c.RecommendationRepository()
	if err != nil {
		return nil, err
	}

	store, err := c.FieldStore()
	if err != nil {
		return nil, err
	}

	pii, err := c.PIIService()
	if err != nil {
		return nil, err
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	uc := recommendationUseCase.NewRecommendationUseCase(txManager, repo, store, pii, c.Logger())
	return recommendationUseCase.NewRecommendationUseCaseWithMetrics(uc, bm), nil
}
