package cmd

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/yatube/yatube-services/api/handlers"
	"github.com/yatube/yatube-services/api/services"
	docs "github.com/yatube/yatube-services/docs"
	awsclient "github.com/yatube/yatube-services/internal/aws"
	"github.com/yatube/yatube-services/internal/cache"
	"github.com/yatube/yatube-services/internal/events"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Yatube Posts API
// @version v1
// @description This is the API for browsing, writing and editing Yatube posts.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer blogDB.Close()

		ctx := context.Background()

		// Initialize event publisher
		publisher, err := events.NewNotifier(appCfg.Pulsar.URL, appCfg.Pulsar.TopicProducer)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event publisher")
		}
		defer publisher.Close()

		// Initialize post count cache
		counts, err := cache.NewPostCounts(ctx, appCfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize post count cache")
		}
		defer counts.Close()

		// Resolve the token signing secret
		secret, err := awsclient.ResolveSigningSecret(ctx, appCfg.Auth, func() (awsclient.SecretsManagerAPI, error) {
			cfg, err := awsclient.LoadAWSConfig(ctx, appCfg.AWS.Region)
			if err != nil {
				return nil, err
			}
			return awsclient.NewSecretsManagerClient(cfg), nil
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to resolve token signing secret")
		}
		if secret == nil {
			log.Warn().Msg("No signing secret configured, token signatures will not be verified")
		}

		service := &services.Service{
			Config:    appCfg,
			DB:        blogDB,
			Counts:    counts,
			Publisher: publisher,
		}

		// Create routes
		r := mux.NewRouter()

		// Docs are registered first so the base path subrouter does not
		// shadow them when it is empty
		docs.SwaggerInfo.Host = appCfg.Host
		docs.SwaggerInfo.BasePath = appCfg.BasePath
		r.PathPrefix(appCfg.DocsPath).Handler(httpSwagger.Handler(
			httpSwagger.URL(path.Join(appCfg.DocsPath, "/doc.json")),
			httpSwagger.DeepLinking(true),
			httpSwagger.DocExpansion("none"),
			httpSwagger.DomID("swagger-ui"),
		)).Methods(http.MethodGet)

		// Register the routes
		api := r.PathPrefix(strings.TrimSuffix(appCfg.BasePath, "/")).Subrouter()
		handlers.RegisterRoutes(api, service, secret, appCfg.Auth.LoginURL)

		log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))

		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", host, port),
			r); err != nil {

			log.Error().Err(err).Msg("could not start server")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}
