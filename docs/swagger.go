package docs

// @title           SwiftDrop API
// @version         1.0
// @description     SwiftDrop is a local courier booking service. Customers draft a delivery step by step (pickup, dropoff, service and timing), get a fare quote, confirm against their wallet balance and follow the courier in real time over WebSocket.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
