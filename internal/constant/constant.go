package constant

const (
	ProductionEnvironment  = "production"
	DevelopmentEnvironment = "development"

	OrderGatewayStreamName               = "order_gateway"
	OrderGatewayStreamSubjectAll         = "order_gateway.*"
	OrderGatewayStreamSubjectOrderPlaced = "order_gateway.order_placed"

	OrderCacheKeyPrefix = "orders"
)
