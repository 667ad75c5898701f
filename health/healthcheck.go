package health

import (
	"fmt"
	"net/http"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	"github.com/Financial-Times/service-status-go/gtg"
)

type service interface {
	Endpoint() string
	GTG() error
}

type HealthService struct {
	fthealth.HealthCheck
	booksAPI service
}

func NewHealthService(appSystemCode string, appName string, appDescription string, booksAPI service) *HealthService {
	hcService := &HealthService{
		booksAPI: booksAPI,
	}
	hcService.SystemCode = appSystemCode
	hcService.Name = appName
	hcService.Description = appDescription
	hcService.Checks = []fthealth.Check{
		hcService.booksAPICheck(),
	}
	return hcService
}

func (service *HealthService) HealthCheckHandleFunc() func(w http.ResponseWriter, r *http.Request) {
	return fthealth.Handler(service)
}

func (service *HealthService) booksAPICheck() fthealth.Check {
	return fthealth.Check{
		ID:               "check-books-api-health",
		BusinessImpact:   "Impossible to list, add, search or delete books",
		Name:             "Check Books API Health",
		PanicGuide:       "https://dewey.ft.com/books-frontend.html",
		Severity:         1,
		TechnicalSummary: fmt.Sprintf("Books API is not available at %v", service.booksAPI.Endpoint()),
		Checker:          service.booksAPIChecker,
	}
}

func (service *HealthService) booksAPIChecker() (string, error) {
	if err := service.booksAPI.GTG(); err != nil {
		return "", err
	}
	return "Books API is healthy", nil
}

func (service *HealthService) GTG() gtg.Status {
	for _, check := range service.Checks {
		if _, err := check.Checker(); err != nil {
			return gtg.Status{GoodToGo: false, Message: err.Error()}
		}
	}
	return gtg.Status{GoodToGo: true}
}
