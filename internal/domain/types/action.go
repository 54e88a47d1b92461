package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"
	ActionRabbitMQPublishFailed   = "rabbitmq_publish_failed"

	ActionRedisConnected        = "redis_connected"
	ActionStoreOperationFailed  = "store_operation_failed"
	ActionExternalServiceFailed = "external_service_failed"
)
