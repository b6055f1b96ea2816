package port

//go:generate mockgen -destination=mock/mock.go -package=mock . Repository,Service,Notifier,CatalogLookup,PaymentLinker,CallbackCodec
