package models

// ItemCategory is the grocery department an item is filed under
type ItemCategory string

const (
	CategoryFruitsVegetables   ItemCategory = "fruits and vegetables"
	CategoryMeat               ItemCategory = "meat"
	CategoryDairy              ItemCategory = "dairy"
	CategoryDryGoods           ItemCategory = "dry goods"
	CategoryAlcohols           ItemCategory = "alcohols"
	CategoryMedicine           ItemCategory = "medicine"
	CategoryPetGoods           ItemCategory = "pet goods"
	CategoryBabyGoods          ItemCategory = "baby goods"
	CategoryDomesticDetergents ItemCategory = "domestic detergents"
	CategoryReadyCookMeals     ItemCategory = "ready-cook meals"
	CategoryHygiene            ItemCategory = "hygiene"
	CategoryCoffeeTea          ItemCategory = "coffee & tea"
	CategoryFrozenFoods        ItemCategory = "frozen foods"
	CategoryGardenTinker       ItemCategory = "garden and tinkering"
	CategoryBread              ItemCategory = "bread"
	CategoryPreserves          ItemCategory = "preserves"
	CategorySpices             ItemCategory = "spices, sauces, additives"
	CategoryFish               ItemCategory = "fishes and seafood"
	CategorySweets             ItemCategory = "sweets and snacks"
	CategoryFats               ItemCategory = "fats"
	CategoryDrinks             ItemCategory = "water and drinks"
	CategoryNuts               ItemCategory = "dried fruit and nuts"
	CategoryHerbs              ItemCategory = "fresh herbs"
	CategoryCans               ItemCategory = "canned food"
	CategoryOther              ItemCategory = "other"
)

// ItemCategories lists every category in display order
var ItemCategories = []ItemCategory{
	CategoryFruitsVegetables,
	CategoryMeat,
	CategoryDairy,
	CategoryDryGoods,
	CategoryAlcohols,
	CategoryMedicine,
	CategoryPetGoods,
	CategoryBabyGoods,
	CategoryDomesticDetergents,
	CategoryReadyCookMeals,
	CategoryHygiene,
	CategoryCoffeeTea,
	CategoryFrozenFoods,
	CategoryGardenTinker,
	CategoryBread,
	CategoryPreserves,
	CategorySpices,
	CategoryFish,
	CategorySweets,
	CategoryFats,
	CategoryDrinks,
	CategoryNuts,
	CategoryHerbs,
	CategoryCans,
	CategoryOther,
}

// ItemUnit is the measurement unit of an item quantity
type ItemUnit string

const (
	UnitPieces     ItemUnit = "pcs"
	UnitPackages   ItemUnit = "pkgs"
	UnitKilogram   ItemUnit = "kg"
	UnitGram       ItemUnit = "g"
	UnitLiter      ItemUnit = "l"
	UnitMilliliter ItemUnit = "ml"
)

// ItemUnits lists every unit
var ItemUnits = []ItemUnit{
	UnitPieces,
	UnitPackages,
	UnitKilogram,
	UnitGram,
	UnitLiter,
	UnitMilliliter,
}

// IsValidCategory reports whether s names a known category
func IsValidCategory(s string) bool {
	for _, c := range ItemCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// IsValidUnit reports whether s names a known unit
func IsValidUnit(s string) bool {
	for _, u := range ItemUnits {
		if string(u) == s {
			return true
		}
	}
	return false
}
