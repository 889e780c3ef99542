package catalog

// Dog is one adoptable dog from the shelter catalog. Values are never mutated after loading.
type Dog struct {
	Name            string   `json:"name"`
	Breed           string   `json:"breed"`
	Age             string   `json:"age"`
	Weight          string   `json:"weight"`
	HealthIssue     string   `json:"health_issue"`
	ImagePath       string   `json:"image_path"`
	Story           string   `json:"story"`
	PersonalityTags []string `json:"personality_tags"`
}

// HasTag reports whether the dog carries tag.
func (d *Dog) HasTag(tag string) bool {
	for _, t := range d.PersonalityTags {
		if t == tag {
			return true
		}
	}
	return false
}

// record mirrors the on-disk layout of a catalog entry. Only the name is required: a blank weight
// scores as 0kg and a blank image path shows the missing image note.
type record struct {
	BasicInfo struct {
		Name        string `json:"name" yaml:"name" validate:"required"`
		Breed       string `json:"breed" yaml:"breed"`
		Age         string `json:"age" yaml:"age"`
		Weight      string `json:"weight" yaml:"weight"`
		HealthIssue string `json:"health_issue" yaml:"health_issue"`
		ImagePath   string `json:"image_path" yaml:"image_path"`
	} `json:"basic_info" yaml:"basic_info"`
	Story           string   `json:"story" yaml:"story"`
	PersonalityTags []string `json:"personality_tags" yaml:"personality_tags" validate:"dive,required"`
}

func (r *record) toDog() *Dog {
	tags := make([]string, len(r.PersonalityTags))
	copy(tags, r.PersonalityTags)

	return &Dog{
		Name:            r.BasicInfo.Name,
		Breed:           r.BasicInfo.Breed,
		Age:             r.BasicInfo.Age,
		Weight:          r.BasicInfo.Weight,
		HealthIssue:     r.BasicInfo.HealthIssue,
		ImagePath:       r.BasicInfo.ImagePath,
		Story:           r.Story,
		PersonalityTags: tags,
	}
}
