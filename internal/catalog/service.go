package catalog

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByStore(storeID int) ([]Catalog, error) {
	if storeID <= 0 {
		return []Catalog{}, nil
	}
	return s.repo.ListByStore(storeID)
}

func (s *Service) GetByID(id int) (Catalog, error) {
	if id <= 0 {
		return Catalog{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}
