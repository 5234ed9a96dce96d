package main

import (
	"net/http"
	"os"

	"github.com/squadup/squadnet/media"
	"github.com/squadup/squadnet/server"
	. "github.com/squadup/squadnet/utils"
	"github.com/squadup/squadnet/utils/dotenv"
	. "github.com/squadup/squadnet/utils/flag"
	. "github.com/squadup/squadnet/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

const defaultGatewayAddr = ":8080"

func init() {
	Log.Info("gateway server initialized")
}

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Log.Info("gateway server shutdown")
}

// newMediaStore picks the bucket by environment and degrades to the
// in-memory store when S3 is unreachable, so local development needs no AWS
// credentials.
func newMediaStore() media.Store {
	bucket := media.TestS3Bucket
	if dotenv.IsProdEnv() {
		bucket = media.ProdS3MediaBucket
	}

	s3Store, err := media.NewS3MediaStore(bucket)
	if err != nil {
		Log.Warn("s3 media store unavailable, falling back to in-memory store: ", err)
		return media.NewFakeMediaStore()
	}
	return s3Store
}

func main() {
	defer cleanup()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	if dotenv.IsProdEnv() {
		StartTracer()
		StartProfiler()
	}

	db, err := GetDBConnection()
	if err != nil {
		panic(err)
	}
	DatabaseSetupAndMigration(db)

	presence, err := GetRedisPresenceStore()
	if err != nil {
		// Presence endpoints report everyone offline without redis.
		Log.Warn("redis presence store unavailable: ", err)
		presence = nil
	}

	apiServer := &server.APIServer{
		Store:    &server.Store{DB: db},
		Presence: presence,
		Media:    newMediaStore(),
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(gintrace.Middleware(ServiceName))

	apiServer.RegisterRoutes(router)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	addr := os.Getenv("GATEWAY_ADDR")
	if addr == "" {
		addr = defaultGatewayAddr
	}

	Log.Info("gateway server starts up on ", addr)
	router.Run(addr)
}
