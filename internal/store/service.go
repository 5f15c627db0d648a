package store

// ServiceInterface is what other packages (orders, the client API) need from
// the store domain.
type ServiceInterface interface {
	List() ([]Store, error)
	GetByID(id int) (Store, error)
	NamesByIDs(ids []int) (map[int]string, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) List() ([]Store, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Store, error) {
	if id <= 0 {
		return Store{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

// NamesByIDs resolves display names for a set of store ids. Unknown ids are
// simply absent from the result.
func (s *Service) NamesByIDs(ids []int) (map[int]string, error) {
	stores, err := s.repo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(stores))
	for _, st := range stores {
		names[st.ID] = st.Name
	}
	return names, nil
}
