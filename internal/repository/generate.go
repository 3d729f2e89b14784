package repository

//go:generate sqlc generate -f ../../sqlc.yaml
//go:generate mockgen -source=querier.go -destination=mock_querier.go -package=repository
