package main

import (
	"net/http"
	"os"

	api "github.com/Financial-Times/api-endpoint"
	"github.com/Financial-Times/books-frontend/apiclient"
	"github.com/Financial-Times/books-frontend/books"
	"github.com/Financial-Times/books-frontend/handler"
	"github.com/Financial-Times/books-frontend/health"
	"github.com/Financial-Times/books-frontend/page"
	"github.com/Financial-Times/books-frontend/render"
	"github.com/Financial-Times/go-ft-http/fthttp"
	"github.com/Financial-Times/go-logger/v2"
	"github.com/Financial-Times/http-handlers-go/v2/httphandlers"
	status "github.com/Financial-Times/service-status-go/httphandlers"
	"github.com/gorilla/mux"
	cli "github.com/jawher/mow.cli"
	metrics "github.com/rcrowley/go-metrics"
)

const appDescription = "Books frontend: forms and collection listing for the books API"

const defaultBooksEndpoint = "https://hsraamatudapiudras.azurewebsites.net/raamatud/"

func main() {
	app := cli.App("books-frontend", appDescription)

	appSystemCode := app.String(cli.StringOpt{
		Name:   "app-system-code",
		Value:  "books-frontend",
		Desc:   "System Code of the application",
		EnvVar: "APP_SYSTEM_CODE",
	})
	appName := app.String(cli.StringOpt{
		Name:   "app-name",
		Value:  "books-frontend",
		Desc:   "Application name",
		EnvVar: "APP_NAME",
	})
	port := app.String(cli.StringOpt{
		Name:   "port",
		Value:  "8080",
		Desc:   "Port to listen on",
		EnvVar: "APP_PORT",
	})
	booksEndpoint := app.String(cli.StringOpt{
		Name:   "books-endpoint",
		Value:  defaultBooksEndpoint,
		Desc:   "Books API collection endpoint, used for listing and deleting books",
		EnvVar: "BOOKS_ENDPOINT",
	})
	createEndpoint := app.String(cli.StringOpt{
		Name:   "create-endpoint",
		Value:  defaultBooksEndpoint,
		Desc:   "Books API endpoint the create form is submitted to",
		EnvVar: "CREATE_ENDPOINT",
	})
	searchEndpoint := app.String(cli.StringOpt{
		Name:   "search-endpoint",
		Value:  "https://hsraamatudapiudras.azurewebsites.net/raamatu_otsing/",
		Desc:   "Books API endpoint the search form is submitted to",
		EnvVar: "SEARCH_ENDPOINT",
	})
	displaySuffix := app.String(cli.StringOpt{
		Name:   "display-suffix",
		Value:  books.DefaultDisplaySuffix,
		Desc:   "Suffix removed from stored book names when they are shown and addressed",
		EnvVar: "DISPLAY_SUFFIX",
	})
	apiYml := app.String(cli.StringOpt{
		Name:   "api-yml",
		Value:  "./_ft/api.yml",
		Desc:   "Location of the API Swagger YML file.",
		EnvVar: "API_YML",
	})
	logLevel := app.String(cli.StringOpt{
		Name:   "log-level",
		Value:  "INFO",
		Desc:   "Log level",
		EnvVar: "LOG_LEVEL",
	})

	log := logger.NewUPPLogger(*appSystemCode, *logLevel)
	log.Infof("[Startup] %v is starting", *appSystemCode)

	app.Action = func() {
		// the logger is rebuilt here as flags and env vars are only parsed by now
		log = logger.NewUPPLogger(*appSystemCode, *logLevel)
		log.Infof("System code: %s, App Name: %s, Port: %s", *appSystemCode, *appName, *port)

		client := apiclient.NewClient(fthttp.NewClientWithDefaultTimeout("PAC", *appSystemCode), log)
		booksAPI := books.NewAPI(client, *booksEndpoint, *displaySuffix, log)

		doc := page.NewDocument()
		refresher := page.NewRefresher(booksAPI, doc, log)
		forms := []page.Form{
			{ID: render.CreateFormID, Action: *createEndpoint},
			{ID: render.SearchFormID, Action: *searchEndpoint},
		}
		adapter := page.NewAdapter(client, forms, doc, refresher, metrics.DefaultRegistry, log)

		booksHandler := handler.New(adapter, refresher, booksAPI, doc, log)
		healthService := health.NewHealthService(*appSystemCode, *appName, appDescription, booksAPI)

		serveEndpoints(*port, apiYml, booksHandler, healthService, log)
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Errorf("App could not start, error=[%s]\n", err)
		return
	}
}

func serveEndpoints(port string, apiYml *string, handler *handler.Handler, healthService *health.HealthService, log *logger.UPPLogger) {
	var monitoringRouter http.Handler = router(apiYml, handler, log)
	monitoringRouter = httphandlers.TransactionAwareRequestLoggingHandler(log, monitoringRouter)
	monitoringRouter = httphandlers.HTTPMetricsHandler(metrics.DefaultRegistry, monitoringRouter)

	http.HandleFunc("/__health", healthService.HealthCheckHandleFunc())
	http.HandleFunc(status.GTGPath, status.NewGoodToGoHandler(healthService.GTG))
	http.HandleFunc(status.BuildInfoPath, status.BuildInfoHandler)

	http.Handle("/", monitoringRouter)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Unable to start: %v", err)
	}
}

func router(apiYml *string, handler *handler.Handler, log *logger.UPPLogger) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", handler.ReadPage).Methods(http.MethodGet)
	r.HandleFunc("/forms/{formID}", handler.SubmitForm).Methods(http.MethodPost)
	r.HandleFunc("/books/{name}/delete", handler.DeleteBook).Methods(http.MethodPost)

	if apiYml != nil {
		apiEndpoint, err := api.NewAPIEndpointForFile(*apiYml)
		if err != nil {
			log.WithError(err).WithField("file", *apiYml).Warn("Failed to serve the API Endpoint for this service. Please validate the Swagger YML and the file location")
		} else {
			r.Handle(api.DefaultPath, apiEndpoint).Methods(http.MethodGet)
		}
	}
	return r
}
